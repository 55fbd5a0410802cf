package duration

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		unit       string
		multiplier int64
	}{
		{unit: "seconds", multiplier: 1},
		{unit: "minutes", multiplier: 60},
		{unit: "hours", multiplier: 3600},
		{unit: "days", multiplier: 86400},
		{unit: "weeks", multiplier: 604800},
		{unit: "months", multiplier: 2592000},
		{unit: "years", multiplier: 31536000},
	}

	values := []int64{0, 1, 5, 30, 1000}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			for _, v := range values {
				// Act
				got, err := Normalize(v, tt.unit)

				// Assert
				if err != nil {
					t.Fatalf("Normalize(%d, %q) unexpected error: %v", v, tt.unit, err)
				}
				if want := v * tt.multiplier; got != want {
					t.Fatalf("Normalize(%d, %q) = %d, want %d", v, tt.unit, got, want)
				}
			}
		})
	}
}

func TestNormalize_FiveMinutes(t *testing.T) {
	got, err := Normalize(5, UnitMinutes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 300 {
		t.Fatalf("got %d, want 300", got)
	}
}

func TestNormalize_InvalidUnit(t *testing.T) {
	for _, unit := range []string{"fortnights", "", "Minutes", " minutes", "minute", "ms"} {
		t.Run(unit, func(t *testing.T) {
			// Act
			got, err := Normalize(5, unit)

			// Assert
			if !errors.Is(err, ErrInvalidUnit) {
				t.Fatalf("Normalize(5, %q) error = %v, want ErrInvalidUnit", unit, err)
			}
			if got != 0 {
				t.Fatalf("Normalize(5, %q) = %d, want 0", unit, got)
			}
		})
	}
}

func TestNormalize_Overflow(t *testing.T) {
	_, err := Normalize(math.MaxInt64/60+1, UnitMinutes)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
}

func TestToDuration(t *testing.T) {
	got, err := ToDuration(2, UnitHours)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2*time.Hour {
		t.Fatalf("got %s, want 2h", got)
	}

	if _, err := ToDuration(1, "fortnights"); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("error = %v, want ErrInvalidUnit", err)
	}
}

func TestUnits(t *testing.T) {
	want := []string{"seconds", "minutes", "hours", "days", "weeks", "months", "years"}
	if got := Units(); !slices.Equal(got, want) {
		t.Fatalf("Units() = %v, want %v", got, want)
	}
}
