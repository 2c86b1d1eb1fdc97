package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bookit/bookit-backend/internal/models"
	"gopkg.in/yaml.v3"
)

// promoFile is the on-disk layout of PROMO_CODES_FILE:
//
//	codes:
//	  - code: SAVE10
//	    type: percentage
//	    value: 10
//	    description: 10% off on total price
type promoFile struct {
	Codes []models.PromoCode `yaml:"codes"`
}

// DefaultPromoCodes returns the reference promo table
func DefaultPromoCodes() []models.PromoCode {
	return []models.PromoCode{
		{Code: "SAVE10", Kind: models.PromoKindPercentage, Value: 10, Description: "10% off on total price"},
		{Code: "FLAT100", Kind: models.PromoKindFixed, Value: 100, Description: "Flat ₹100 off"},
		{Code: "SUMMER20", Kind: models.PromoKindPercentage, Value: 20, Description: "20% off on total price"},
		{Code: "WELCOME50", Kind: models.PromoKindFixed, Value: 50, Description: "Flat ₹50 off"},
	}
}

// LoadPromoCodes reads the promo table from a YAML file. An empty path
// yields the reference table.
func LoadPromoCodes(path string) ([]models.PromoCode, error) {
	if path == "" {
		return DefaultPromoCodes(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read promo codes file: %w", err)
	}

	var file promoFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse promo codes file: %w", err)
	}

	return normalizePromoCodes(file.Codes)
}

func normalizePromoCodes(codes []models.PromoCode) ([]models.PromoCode, error) {
	seen := make(map[string]bool, len(codes))
	result := make([]models.PromoCode, 0, len(codes))

	for i, promo := range codes {
		promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
		if promo.Code == "" {
			return nil, fmt.Errorf("promo code #%d has an empty code", i+1)
		}
		if seen[promo.Code] {
			return nil, fmt.Errorf("promo code %s is defined more than once", promo.Code)
		}
		if !promo.Kind.IsValid() {
			return nil, fmt.Errorf("promo code %s has invalid type %q (must be 'percentage' or 'fixed')", promo.Code, promo.Kind)
		}
		if promo.Value < 0 {
			return nil, fmt.Errorf("promo code %s has a negative value", promo.Code)
		}
		if promo.Kind == models.PromoKindPercentage && promo.Value > 100 {
			return nil, fmt.Errorf("promo code %s exceeds 100%%", promo.Code)
		}

		seen[promo.Code] = true
		result = append(result, promo)
	}

	return result, nil
}
