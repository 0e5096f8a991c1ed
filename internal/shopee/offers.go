package shopee

import "encoding/json"

// Flex holds a JSON value that may arrive as either a string or a number.
// The productOfferV2 API is inconsistent about this for money and rate
// fields, so the wire type preserves the raw text and coercion happens once,
// at the normalization boundary.
type Flex string

// UnmarshalJSON accepts strings, numbers and null.
func (f *Flex) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	*f = Flex(b)
	return nil
}

// ProductOffer is one raw search result as returned on the wire. Nothing
// outside the normalization boundary should consume it directly.
type ProductOffer struct {
	ItemID            Flex   `json:"itemId"`
	ProductName       string `json:"productName"`
	ProductLink       string `json:"productLink"`
	OfferLink         string `json:"offerLink"`
	OriginURL         string `json:"originUrl"`
	PriceMin          Flex   `json:"priceMin"`
	PriceMax          Flex   `json:"priceMax"`
	PriceDiscountRate Flex   `json:"priceDiscountRate"`
	Commission        Flex   `json:"commission"`
	CommissionRate    Flex   `json:"commissionRate"`
	ShopName          string `json:"shopName"`
	Sales             Flex   `json:"sales"`
	Rating            Flex   `json:"ratingStar"`
	ImageURL          string `json:"imageUrl"`
}

// PageInfo carries pagination state for a search response.
type PageInfo struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
}

// ConversionReport is one page of the conversion report, paginated via a
// scroll token.
type ConversionReport struct {
	Nodes    []json.RawMessage `json:"nodes"`
	ScrollID string            `json:"scrollId"`
	HasNext  bool              `json:"hasNextPage"`
}
