package entries

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const DefaultMaxDescriptionLength = 255

var (
	DefaultMinHours = decimal.RequireFromString("0.01")
	DefaultMaxHours = decimal.NewFromInt(24)
)

// Rules holds the bounds every entry is validated against.
type Rules struct {
	MinHours             decimal.Decimal
	MaxHours             decimal.Decimal
	MaxDescriptionLength int
	// AllowDuplicates permits more than one entry per user, project and date.
	AllowDuplicates bool
}

func DefaultRules() Rules {
	return Rules{
		MinHours:             DefaultMinHours,
		MaxHours:             DefaultMaxHours,
		MaxDescriptionLength: DefaultMaxDescriptionLength,
		AllowDuplicates:      true,
	}
}

func (r Rules) Validate() error {
	if !r.MinHours.IsPositive() {
		return fmt.Errorf("min hours must be > 0, got %s", r.MinHours)
	}
	if r.MaxHours.LessThan(r.MinHours) {
		return fmt.Errorf("max hours %s must be >= min hours %s", r.MaxHours, r.MinHours)
	}
	if r.MaxHours.GreaterThan(decimal.NewFromInt(24)) {
		return fmt.Errorf("max hours must be <= 24, got %s", r.MaxHours)
	}
	if r.MaxDescriptionLength <= 0 {
		return fmt.Errorf("max description length must be > 0, got %d", r.MaxDescriptionLength)
	}
	return nil
}

func (r Rules) hoursInRange(hours decimal.Decimal) bool {
	return !hours.LessThan(r.MinHours) && !hours.GreaterThan(r.MaxHours)
}
