// Package scoring implements the pure scoring and filtering model used to
// rank product offers. No I/O, no side effects.
package scoring

import (
	"math"

	"github.com/mariabico/offer-curator/internal/types"
)

// Weights for the score components.
type Weights struct {
	Commission float64
	Discount   float64
	Price      float64
}

// DefaultWeights returns the production defaults.
func DefaultWeights() Weights {
	return Weights{Commission: 1.0, Discount: 0.5, Price: 0.02}
}

// Thresholds are the minimum bars an offer must clear to be considered.
// PriceMax, SalesMin and RatingMin are only enforced when non-zero.
type Thresholds struct {
	CommissionRateMin float64
	CommissionMin     float64
	DiscountMinPct    float64
	PriceMax          float64
	SalesMin          int64
	RatingMin         float64
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CommissionRateMin: 0.05,
		CommissionMin:     3.00,
		DiscountMinPct:    5,
	}
}

// FilterReason identifies the first threshold check an offer failed.
type FilterReason string

// Filter reasons, in the fixed order the checks run.
const (
	ReasonNone           FilterReason = ""
	ReasonCommissionRate FilterReason = "commission_rate"
	ReasonCommission     FilterReason = "commission"
	ReasonDiscount       FilterReason = "discount"
	ReasonPrice          FilterReason = "price"
	ReasonSales          FilterReason = "sales"
	ReasonRating         FilterReason = "rating"
)

// Score computes the ranking score for an offer, rounded to 2 decimals.
// Deterministic: identical inputs always produce the identical score.
// The commission amount is used as-is; an absent wire commission was
// already derived at the normalization boundary, and an explicit zero
// means zero.
func Score(o types.Offer, w Weights) float64 {
	s := o.Commission*w.Commission + o.DiscountPct*w.Discount - o.PriceMin*w.Price
	return math.Round(s*100) / 100
}

// CheckFilters evaluates the threshold checks in their fixed order and
// reports the first failure, for diagnostics tallies.
func CheckFilters(o types.Offer, t Thresholds) (bool, FilterReason) {
	if o.CommissionRate < t.CommissionRateMin {
		return false, ReasonCommissionRate
	}
	if o.Commission < t.CommissionMin {
		return false, ReasonCommission
	}
	if o.DiscountPct < t.DiscountMinPct {
		return false, ReasonDiscount
	}
	if t.PriceMax > 0 && o.PriceMin > t.PriceMax {
		return false, ReasonPrice
	}
	if t.SalesMin > 0 && o.Sales < t.SalesMin {
		return false, ReasonSales
	}
	if t.RatingMin > 0 && o.Rating < t.RatingMin {
		return false, ReasonRating
	}
	return true, ReasonNone
}

// PassesFilters reports whether an offer clears every threshold.
func PassesFilters(o types.Offer, t Thresholds) bool {
	ok, _ := CheckFilters(o, t)
	return ok
}
