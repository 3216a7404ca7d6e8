package service

import (
	"context"
	"errors"
	"time"

	"cabanas-backend/internal/domain"
)

type pricingService struct {
	catalog          CatalogService
	discounts        DiscountService
	extraGuestFeeCLP int32
	highSeasonMonths map[time.Month]bool
}

func NewPricingService(catalog CatalogService, discounts DiscountService, extraGuestFeeCLP int32, highSeasonMonths []int) PricingService {
	high := make(map[time.Month]bool, len(highSeasonMonths))
	for _, m := range highSeasonMonths {
		high[time.Month(m)] = true
	}
	return &pricingService{
		catalog:          catalog,
		discounts:        discounts,
		extraGuestFeeCLP: extraGuestFeeCLP,
		highSeasonMonths: high,
	}
}

const dateLayout = "2006-01-02"

// QuoteStay prices a candidate stay in whole pesos.
//
// The whole stay is charged at the check-in date's season rate; a stay that
// spans a season boundary is not prorated per night. This mirrors the
// long-standing billing behavior the front desk quotes from, so it stays
// until product says otherwise. Hot-tub days are priced per day since they
// are individual dates anyway.
func (s *pricingService) QuoteStay(ctx context.Context, stay *domain.Stay) (*domain.PriceBreakdown, string, error) {
	checkIn, err := time.Parse(dateLayout, stay.CheckIn)
	if err != nil {
		return nil, "", domain.ErrInvalidQuote
	}
	checkOut, err := time.Parse(dateLayout, stay.CheckOut)
	if err != nil {
		return nil, "", domain.ErrInvalidQuote
	}
	nights := int32(checkOut.Sub(checkIn).Hours() / 24)
	if nights <= 0 {
		return nil, "", domain.ErrInvalidQuote
	}
	if stay.Guests <= 0 {
		return nil, "", domain.ErrInvalidQuote
	}

	unit, err := s.catalog.GetUnit(ctx, stay.UnitID)
	if err != nil {
		return nil, "", err
	}
	if unit.Kind != domain.UnitKindCabin {
		return nil, "", domain.ErrInvalidQuote
	}
	if stay.Guests > unit.Capacity {
		return nil, "", domain.ErrInvalidQuote
	}

	rate := unit.RateLowCLP
	if s.highSeasonMonths[checkIn.Month()] {
		rate = unit.RateHighCLP
	}
	base := nights * rate

	extraGuests := stay.Guests - unit.BaseOccupancy
	if extraGuests < 0 {
		extraGuests = 0
	}
	// Flat per extra person, independent of night count.
	extraFee := extraGuests * s.extraGuestFeeCLP

	addonsTotal, err := s.priceAddons(ctx, stay)
	if err != nil {
		return nil, "", err
	}

	var rule *domain.DiscountRule
	var rejection string
	if stay.DiscountCode != "" {
		rule, err = s.discounts.Resolve(ctx, stay.DiscountCode, stay.UnitID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			if !errors.Is(err, domain.ErrNotApplicable) {
				return nil, "", err
			}
			// Degrade to a no-discount quote and tell the caller why.
			rejection = err.Error()
			rule = nil
		}
	}

	discount := discountAmount(rule, base, addonsTotal)

	total := base + extraFee + addonsTotal - discount
	if total < 0 {
		return nil, "", domain.ErrInvalidQuote
	}

	dueNow := total
	if stay.PaymentKind == domain.PaymentKindHalf {
		// Integer division; any odd peso stays in the balance due at check-in.
		dueNow = total / 2
	}

	return &domain.PriceBreakdown{
		Nights:           nights,
		NightlyRateCLP:   rate,
		BaseCLP:          base,
		ExtraGuests:      extraGuests,
		ExtraGuestFeeCLP: extraFee,
		AddonsCLP:        addonsTotal,
		DiscountCLP:      discount,
		TotalCLP:         total,
		DueNowCLP:        dueNow,
	}, rejection, nil
}

// priceAddons prices each hot-tub day at that day's season rate and stamps
// the rate onto the addon entry for persistence.
func (s *pricingService) priceAddons(ctx context.Context, stay *domain.Stay) (int32, error) {
	var total int32
	for i, a := range stay.Addons {
		day, err := time.Parse(dateLayout, a.Day)
		if err != nil {
			return 0, domain.ErrInvalidQuote
		}
		tub, err := s.catalog.GetUnit(ctx, a.HotTubID)
		if err != nil {
			return 0, err
		}
		if tub.Kind != domain.UnitKindHotTub {
			return 0, domain.ErrInvalidQuote
		}
		rate := tub.RateLowCLP
		if s.highSeasonMonths[day.Month()] {
			rate = tub.RateHighCLP
		}
		stay.Addons[i].RateCLP = rate
		total += rate
	}
	return total, nil
}

// discountAmount applies a resolved rule. Discounts reach the cabin nightly
// subtotal only, unless the rule opts add-ons in; they never exceed their
// base and never touch the extra-guest fee.
func discountAmount(rule *domain.DiscountRule, base, addonsTotal int32) int32 {
	if rule == nil {
		return 0
	}
	subtotal := base
	if rule.AppliesToAddons {
		subtotal += addonsTotal
	}

	var amount int32
	switch rule.Kind {
	case domain.DiscountKindFlat:
		amount = rule.AmountCLP
	case domain.DiscountKindPercent:
		amount = subtotal * rule.Percent / 100
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}
