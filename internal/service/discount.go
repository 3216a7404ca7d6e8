package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/repository"
)

type discountService struct {
	discounts repository.DiscountRepository
}

func NewDiscountService(discounts repository.DiscountRepository) DiscountService {
	return &discountService{discounts: discounts}
}

// Resolve checks a code against the requested unit and stay window. Every
// rejection wraps ErrNotApplicable with the specific reason; the caller
// re-quotes without the discount and shows the reason to the user.
func (s *discountService) Resolve(ctx context.Context, code string, unitID int32, from, to string) (*domain.DiscountRule, error) {
	rule, err := s.discounts.GetByCode(ctx, strings.TrimSpace(strings.ToUpper(code)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("code %q does not exist: %w", code, domain.ErrNotApplicable)
		}
		return nil, err
	}

	if !rule.Active {
		return nil, fmt.Errorf("code %q is inactive: %w", code, domain.ErrNotApplicable)
	}

	// The stay must sit fully inside the validity window. Check-out is
	// exclusive, so a stay ending the day after ValidTo is still covered.
	// ISO dates compare lexicographically.
	if from < rule.ValidFrom || lastNight(to) > rule.ValidTo {
		return nil, fmt.Errorf("code %q is not valid for %s to %s: %w", code, from, to, domain.ErrNotApplicable)
	}

	if len(rule.UnitIDs) > 0 {
		allowed := false
		for _, id := range rule.UnitIDs {
			if id == unitID {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("code %q does not apply to this unit: %w", code, domain.ErrNotApplicable)
		}
	}

	return rule, nil
}

// lastNight returns the last occupied date of a half-open range ending at
// checkOut (yyyy-mm-dd).
func lastNight(checkOut string) string {
	t, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return checkOut
	}
	return t.AddDate(0, 0, -1).Format(dateLayout)
}
