package duration

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

var (
	// ErrInvalidUnit is returned when the unit is not one of the recognized names.
	ErrInvalidUnit = errors.New("invalid duration unit")

	// ErrOutOfRange is returned when value * multiplier does not fit in an int64.
	ErrOutOfRange = errors.New("duration value out of range")
)

// Recognized unit names.
const (
	UnitSeconds = "seconds"
	UnitMinutes = "minutes"
	UnitHours   = "hours"
	UnitDays    = "days"
	UnitWeeks   = "weeks"
	UnitMonths  = "months"
	UnitYears   = "years"
)

var multipliers = map[string]int64{
	UnitSeconds: 1,
	UnitMinutes: 60,
	UnitHours:   3600,
	UnitDays:    86400,
	UnitWeeks:   604800,
	UnitMonths:  2592000,  // 30 days
	UnitYears:   31536000, // 365 days
}

// Normalize returns value expressed in seconds for the given unit.
//
// Unit matching is exact: "Minutes" or " minutes" are rejected.
func Normalize(value int64, unit string) (int64, error) {
	m, ok := multipliers[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidUnit, unit, strings.Join(Units(), ", "))
	}

	if value > math.MaxInt64/m || value < math.MinInt64/m {
		return 0, fmt.Errorf("%w: %d %s", ErrOutOfRange, value, unit)
	}

	return value * m, nil
}

// ToDuration is Normalize converted to a time.Duration.
func ToDuration(value int64, unit string) (time.Duration, error) {
	sec, err := Normalize(value, unit)
	if err != nil {
		return 0, err
	}

	if sec > int64(math.MaxInt64/time.Second) || sec < int64(math.MinInt64/time.Second) {
		return 0, fmt.Errorf("%w: %d %s", ErrOutOfRange, value, unit)
	}

	return time.Duration(sec) * time.Second, nil
}

// Units lists the recognized unit names from the smallest to the largest.
func Units() []string {
	units := lo.Keys(multipliers)
	slices.SortFunc(units, func(a, b string) int {
		return cmp.Compare(multipliers[a], multipliers[b])
	})

	return units
}
