package models

// PromoKind is how a promo code reduces a price
type PromoKind string

const (
	PromoKindPercentage PromoKind = "percentage"
	PromoKindFixed      PromoKind = "fixed"
)

// IsValid checks if the kind is one the evaluator understands
func (k PromoKind) IsValid() bool {
	return k == PromoKindPercentage || k == PromoKindFixed
}

// PromoCode is one entry of the promo table. Value is a percentage for
// percentage codes and an amount in the smallest currency unit for fixed ones.
type PromoCode struct {
	Code        string    `json:"code" yaml:"code"`
	Kind        PromoKind `json:"type" yaml:"type"`
	Value       int64     `json:"value" yaml:"value"`
	Description string    `json:"description" yaml:"description"`
}

// ValidatePromoRequest is the promo box payload
type ValidatePromoRequest struct {
	Code       string `json:"code"`
	TotalPrice *int64 `json:"totalPrice"`
}

// PromoQuote is the result of validating a code against a price
type PromoQuote struct {
	Code          string    `json:"code"`
	Discount      int64     `json:"discount"`
	OriginalPrice int64     `json:"originalPrice"`
	FinalPrice    int64     `json:"finalPrice"`
	Kind          PromoKind `json:"type"`
	Value         int64     `json:"value"`
	Description   string    `json:"description"`
}
