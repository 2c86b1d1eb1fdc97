package services

import (
	"strings"

	"github.com/bookit/bookit-backend/internal/models"
)

// PromoService evaluates promo codes against a configured table.
// It holds no mutable state and is safe for concurrent use.
type PromoService struct {
	codes map[string]models.PromoCode
}

// NewPromoService creates a promo evaluator over the given table
func NewPromoService(codes []models.PromoCode) *PromoService {
	table := make(map[string]models.PromoCode, len(codes))
	for _, code := range codes {
		table[normalizeCode(code.Code)] = code
	}
	return &PromoService{codes: table}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup finds a code, ignoring case and surrounding whitespace
func (s *PromoService) Lookup(code string) (models.PromoCode, bool) {
	promo, ok := s.codes[normalizeCode(code)]
	return promo, ok
}

// Discount returns the amount code takes off price. Unknown codes give 0.
// The result never exceeds price.
func (s *PromoService) Discount(code string, price int64) int64 {
	promo, ok := s.Lookup(code)
	if !ok {
		return 0
	}
	return calculateDiscount(promo, price)
}

func calculateDiscount(promo models.PromoCode, price int64) int64 {
	if price <= 0 {
		return 0
	}

	var discount int64
	switch promo.Kind {
	case models.PromoKindPercentage:
		if promo.Value >= 100 {
			return price
		}
		// round half up, split so price*value cannot overflow
		discount = price/100*promo.Value + (price%100*promo.Value+50)/100
	case models.PromoKindFixed:
		discount = promo.Value
	default:
		return 0
	}

	if discount > price {
		return price
	}
	if discount < 0 {
		return 0
	}
	return discount
}

// Validate quotes a code against a price for the promo box.
// Unlike Discount, an unknown code is an error here.
func (s *PromoService) Validate(req *models.ValidatePromoRequest) (*models.PromoQuote, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, NewInvalidRequest("Promo code is required")
	}

	var price int64
	if req.TotalPrice != nil {
		price = *req.TotalPrice
	}
	if price < 0 {
		return nil, NewInvalidRequest("Total price cannot be negative")
	}

	promo, ok := s.Lookup(code)
	if !ok {
		return nil, NewInvalidRequest("Invalid promo code")
	}

	discount := calculateDiscount(promo, price)
	return &models.PromoQuote{
		Code:          code,
		Discount:      discount,
		OriginalPrice: price,
		FinalPrice:    price - discount,
		Kind:          promo.Kind,
		Value:         promo.Value,
		Description:   promo.Description,
	}, nil
}

// Price computes the server-side breakdown for a booking. The code is
// recorded upper-cased even when it is unknown, in which case the discount is 0.
func (s *PromoService) Price(originalPrice int64, promoCode *string) models.Pricing {
	pricing := models.Pricing{OriginalPrice: originalPrice}

	if promoCode != nil {
		if code := normalizeCode(*promoCode); code != "" {
			pricing.PromoCode = &code
			pricing.Discount = s.Discount(code, originalPrice)
		}
	}

	pricing.TotalPrice = originalPrice - pricing.Discount
	if pricing.TotalPrice < 0 {
		pricing.TotalPrice = 0
	}
	return pricing
}
