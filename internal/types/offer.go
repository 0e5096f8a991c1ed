// Package types defines the value types shared across the curation pipeline.
package types

// Offer is one normalized product offer returned by an affiliate search call.
// All numeric fields have already been coerced at the normalization boundary;
// downstream code never sees string-typed numbers.
type Offer struct {
	ItemID         string  `json:"itemId"`
	Name           string  `json:"productName"`
	PriceMin       float64 `json:"priceMin"`
	DiscountPct    float64 `json:"priceDiscountRate"`
	CommissionRate float64 `json:"commissionRate"`
	Commission     float64 `json:"commission"`
	OriginURL      string  `json:"originUrl"`
	ImageURL       string  `json:"imageUrl"`
	Rating         float64 `json:"rating"`
	Sales          int64   `json:"sales"`
	Keyword        string  `json:"keyword"`
}

// ScoredOffer is an Offer with its computed ranking score attached, and,
// after link generation, the trackable short link to publish.
type ScoredOffer struct {
	Offer
	Score     float64 `json:"score"`
	ShortLink string  `json:"shortLink,omitempty"`
}
