package coinfolio

import (
	"math"
	"slices"
	"testing"
)

func pct(p float64) *Percent {
	v := Percent(p)
	return &v
}

func TestChange24h(t *testing.T) {
	quotes := []AssetQuote{
		{ID: "bitcoin", Price: USD(110), Change24h: pct(10)},
		{ID: "ethereum", Price: USD(50), Change24h: pct(-50)},
		{ID: "nochange", Price: USD(1)},
		{ID: "rugged", Price: USD(0.0001), Change24h: pct(-99.99)},
	}

	testCases := []struct {
		name         string
		positions    map[string]Quantity
		wantValue    Money
		wantPrevious Money
		wantPercent  float64
		wantSkipped  []string
	}{
		{
			name:         "gain",
			positions:    map[string]Quantity{"bitcoin": Q(2)},
			wantValue:    USD(220),
			wantPrevious: USD(200),
			wantPercent:  10,
		},
		{
			name:         "mixed",
			positions:    map[string]Quantity{"bitcoin": Q(1), "ethereum": Q(1)},
			wantValue:    USD(160),
			wantPrevious: USD(200),
			wantPercent:  -20,
		},
		{
			name:         "skipped",
			positions:    map[string]Quantity{"bitcoin": Q(1), "nochange": Q(5), "rugged": Q(1e6), "unknown": Q(1)},
			wantValue:    USD(110),
			wantPrevious: USD(100),
			wantPercent:  10,
			wantSkipped:  []string{"nochange", "rugged", "unknown"},
		},
		{
			name:         "nothing",
			positions:    map[string]Quantity{},
			wantValue:    USD(0),
			wantPrevious: USD(0),
			wantPercent:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Change24h(tc.positions, quotes)
			if !got.Value.Round(8).Equal(tc.wantValue) {
				t.Errorf("Value = %v, want %v", got.Value, tc.wantValue)
			}
			if !got.Previous.Round(8).Equal(tc.wantPrevious) {
				t.Errorf("Previous = %v, want %v", got.Previous, tc.wantPrevious)
			}
			if !got.Change.Round(8).Equal(tc.wantValue.Sub(tc.wantPrevious)) {
				t.Errorf("Change = %v, want %v", got.Change, tc.wantValue.Sub(tc.wantPrevious))
			}
			if math.Abs(float64(got.Percent)-tc.wantPercent) > 1e-9 {
				t.Errorf("Percent = %v, want %v", got.Percent, tc.wantPercent)
			}
			if !slices.Equal(got.Skipped, tc.wantSkipped) {
				t.Errorf("Skipped = %v, want %v", got.Skipped, tc.wantSkipped)
			}
		})
	}
}
