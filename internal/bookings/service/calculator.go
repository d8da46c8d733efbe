package service

import (
	"math"

	leadrepo "moveops_backend/internal/leads/repository"
	rulerepo "moveops_backend/internal/merchants/repository"
)

// Price band margins around the computed price.
const (
	minMargin = 0.9
	maxMargin = 1.15
)

// DefaultVolume is assumed when a lead does not state its move size.
const DefaultVolume = "M"

// Quote is a computed price band in KRW.
type Quote struct {
	PriceMin int64
	PriceMax int64
}

// ComputeQuote derives a price band from a lead, the merchant's pricing rule,
// and the estimated distance in kilometers.
//
// Floor cost counts both endpoints' floors, and each endpoint with an
// elevator gets one floor's discount. The sum is deliberately not clamped at
// zero: a ground-floor move with elevators on both sides prices below the
// base fee, which merchants use as an effective discount.
func ComputeQuote(lead leadrepo.Lead, rule rulerepo.PricingRule, distanceKm float64) Quote {
	floors := billableFloors(lead)

	basePrice := float64(rule.BaseFee) +
		distanceKm*float64(rule.PerKm) +
		float64(floors)*float64(rule.PerFloor)

	volume := DefaultVolume
	if lead.Volume != nil && *lead.Volume != "" {
		volume = *lead.Volume
	}
	coeff, ok := rule.VolumeCoeff[volume]
	if !ok {
		// Unknown size keys price as-is. A configured zero is honored.
		coeff = 1
	}

	final := basePrice * coeff
	return Quote{
		PriceMin: int64(math.Round(final * minMargin)),
		PriceMax: int64(math.Round(final * maxMargin)),
	}
}

// billableFloors sums both endpoints' floors, minus one per elevator.
func billableFloors(lead leadrepo.Lead) int {
	floors := 0
	if lead.FloorFrom != nil {
		floors += *lead.FloorFrom
	}
	if lead.FloorTo != nil {
		floors += *lead.FloorTo
	}
	if lead.ElevFrom != nil && *lead.ElevFrom {
		floors--
	}
	if lead.ElevTo != nil && *lead.ElevTo {
		floors--
	}
	return floors
}
