package curator

import (
	"math"
	"strconv"
	"strings"

	"github.com/mariabico/offer-curator/internal/shopee"
	"github.com/mariabico/offer-curator/internal/types"
)

// coerceFloat parses a flexible wire value, falling back to 0 on failure.
func coerceFloat(f shopee.Flex) float64 {
	v, _ := parseFloat(f)
	return v
}

// parseFloat parses a flexible wire value, reporting whether it was present
// and numeric. An explicit "0" parses as (0, true); absent or garbage is
// (0, false).
func parseFloat(f shopee.Flex) (float64, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// coerceInt parses a flexible wire value as an integer, tolerating values
// that arrive as floats, falling back to 0.
func coerceInt(f shopee.Flex) int64 {
	s := strings.TrimSpace(string(f))
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(v)
	}
	return 0
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeOffer is the single coercion boundary between the wire shape and
// the pipeline. All string-or-number fields are coerced here with a
// fallback of 0 on parse failure; nothing downstream re-parses. The
// commission amount is taken from the offer when present and numeric, an
// explicit zero included; only an absent or unparseable commission is
// derived as price * rate.
func NormalizeOffer(raw shopee.ProductOffer, keyword string) types.Offer {
	price := coerceFloat(raw.PriceMin)
	rate := coerceFloat(raw.CommissionRate)

	commission, ok := parseFloat(raw.Commission)
	if !ok {
		commission = price * rate
	}

	originURL := raw.OfferLink
	if originURL == "" {
		originURL = raw.OriginURL
	}
	if originURL == "" {
		originURL = raw.ProductLink
	}

	return types.Offer{
		ItemID:         strings.TrimSpace(string(raw.ItemID)),
		Name:           raw.ProductName,
		PriceMin:       price,
		DiscountPct:    coerceFloat(raw.PriceDiscountRate),
		CommissionRate: rate,
		Commission:     round2(commission),
		OriginURL:      originURL,
		ImageURL:       raw.ImageURL,
		Rating:         coerceFloat(raw.Rating),
		Sales:          coerceInt(raw.Sales),
		Keyword:        keyword,
	}
}
