package service

import (
	"testing"

	leadrepo "moveops_backend/internal/leads/repository"
	rulerepo "moveops_backend/internal/merchants/repository"
)

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func volPtr(s string) *string { return &s }

func defaultRule() rulerepo.PricingRule {
	return rulerepo.PricingRule{
		BaseFee:  200000,
		PerKm:    2000,
		PerFloor: 10000,
		VolumeCoeff: map[string]float64{
			"S": 1,
			"M": 1.15,
			"L": 1.35,
		},
	}
}

func TestComputeQuoteStandardMove(t *testing.T) {
	// Ground-level M move over 10 km:
	// 200000 + 10*2000 = 220000, * 1.15 = 253000
	// min = 253000 * 0.9 = 227700, max = 253000 * 1.15 = 290950
	quote := ComputeQuote(leadrepo.Lead{Volume: volPtr("M")}, defaultRule(), 10)
	if quote.PriceMin != 227700 {
		t.Fatalf("PriceMin = %d, want 227700", quote.PriceMin)
	}
	if quote.PriceMax != 290950 {
		t.Fatalf("PriceMax = %d, want 290950", quote.PriceMax)
	}
}

func TestComputeQuoteDefaultsToMediumVolume(t *testing.T) {
	withVolume := ComputeQuote(leadrepo.Lead{Volume: volPtr("M")}, defaultRule(), 10)
	noVolume := ComputeQuote(leadrepo.Lead{}, defaultRule(), 10)
	if noVolume != withVolume {
		t.Fatalf("missing volume priced %+v, want same as M %+v", noVolume, withVolume)
	}
}

func TestComputeQuoteUnknownVolumeKeyUsesCoefficientOne(t *testing.T) {
	rule := defaultRule()
	got := ComputeQuote(leadrepo.Lead{Volume: volPtr("XL")}, rule, 10)
	want := ComputeQuote(leadrepo.Lead{Volume: volPtr("S")}, rule, 10) // S is configured as 1
	if got != want {
		t.Fatalf("unknown volume key priced %+v, want coefficient 1 result %+v", got, want)
	}
}

func TestComputeQuoteHonorsConfiguredZeroCoefficient(t *testing.T) {
	rule := defaultRule()
	rule.VolumeCoeff["S"] = 0

	quote := ComputeQuote(leadrepo.Lead{Volume: volPtr("S")}, rule, 10)
	if quote.PriceMin != 0 || quote.PriceMax != 0 {
		t.Fatalf("configured zero coefficient must zero the quote, got %+v", quote)
	}
}

func TestComputeQuoteFloorsAndElevators(t *testing.T) {
	tests := []struct {
		name   string
		lead   leadrepo.Lead
		floors int
	}{
		{"both floors set", leadrepo.Lead{FloorFrom: intPtr(3), FloorTo: intPtr(5)}, 8},
		{"missing floor counts as ground", leadrepo.Lead{FloorTo: intPtr(5)}, 5},
		{"one elevator discounts one floor", leadrepo.Lead{FloorFrom: intPtr(3), FloorTo: intPtr(5), ElevFrom: boolPtr(true)}, 7},
		{"both elevators discount two floors", leadrepo.Lead{FloorFrom: intPtr(3), FloorTo: intPtr(5), ElevFrom: boolPtr(true), ElevTo: boolPtr(true)}, 6},
		{"false elevator is no discount", leadrepo.Lead{FloorFrom: intPtr(3), ElevFrom: boolPtr(false)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := billableFloors(tt.lead); got != tt.floors {
				t.Fatalf("billableFloors = %d, want %d", got, tt.floors)
			}
		})
	}
}

func TestComputeQuoteNegativeFloorsNotClamped(t *testing.T) {
	// Ground floor on both ends, elevators on both ends: -2 billable
	// floors, pricing the move below base fee.
	lead := leadrepo.Lead{
		FloorFrom: intPtr(0),
		FloorTo:   intPtr(0),
		ElevFrom:  boolPtr(true),
		ElevTo:    boolPtr(true),
		Volume:    volPtr("S"),
	}
	if got := billableFloors(lead); got != -2 {
		t.Fatalf("billableFloors = %d, want -2", got)
	}

	quote := ComputeQuote(lead, defaultRule(), 0)
	// 200000 - 2*10000 = 180000, coeff 1
	if quote.PriceMin != 162000 {
		t.Fatalf("PriceMin = %d, want 162000", quote.PriceMin)
	}
	if quote.PriceMax != 207000 {
		t.Fatalf("PriceMax = %d, want 207000", quote.PriceMax)
	}
}

func TestComputeQuoteDistanceMonotonic(t *testing.T) {
	rule := defaultRule()
	prev := ComputeQuote(leadrepo.Lead{}, rule, 0)
	for _, km := range []float64{1, 5, 10, 50, 120} {
		quote := ComputeQuote(leadrepo.Lead{}, rule, km)
		if quote.PriceMin <= prev.PriceMin || quote.PriceMax <= prev.PriceMax {
			t.Fatalf("quote at %v km (%+v) not above previous (%+v)", km, quote, prev)
		}
		prev = quote
	}
}
