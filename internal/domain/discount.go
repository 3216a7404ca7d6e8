package domain

type DiscountKind string

const (
	DiscountKindFlat    DiscountKind = "FLAT"
	DiscountKindPercent DiscountKind = "PERCENT"
)

// DiscountRule is a resolved discount code. A rule with an empty UnitIDs list
// is global; otherwise it only applies to the listed units.
type DiscountRule struct {
	ID        int32        `json:"id"`
	Code      string       `json:"code"`
	Kind      DiscountKind `json:"kind"`
	AmountCLP int32        `json:"amount_clp"` // flat rules
	Percent   int32        `json:"percent"`    // percent rules, 0-100
	ValidFrom string       `json:"valid_from"` // yyyy-mm-dd, inclusive
	ValidTo   string       `json:"valid_to"`   // yyyy-mm-dd, inclusive
	Active    bool         `json:"active"`
	UnitIDs   []int32      `json:"unit_ids,omitempty"`
	// AppliesToAddons extends the discount base to hot-tub charges. Default
	// rules discount the cabin nightly subtotal only.
	AppliesToAddons bool `json:"applies_to_addons"`
}
