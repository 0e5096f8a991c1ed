package shopee

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlex_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Flex
	}{
		{"string", `"12.50"`, "12.50"},
		{"number", `12.5`, "12.5"},
		{"integer", `42`, "42"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flex
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestProductOffer_UnmarshalMixedTypes(t *testing.T) {
	// The API returns the same fields as strings on some responses and
	// numbers on others.
	raw := `{
		"itemId": 123456789,
		"productName": "Fone Bluetooth TWS",
		"priceMin": "89.90",
		"priceDiscountRate": 25,
		"commissionRate": "0.12",
		"commission": 10.79,
		"sales": "1500",
		"ratingStar": 4.8,
		"offerLink": "https://s.shopee.com.br/offer"
	}`

	var offer ProductOffer
	require.NoError(t, json.Unmarshal([]byte(raw), &offer))

	assert.Equal(t, Flex("123456789"), offer.ItemID)
	assert.Equal(t, "Fone Bluetooth TWS", offer.ProductName)
	assert.Equal(t, Flex("89.90"), offer.PriceMin)
	assert.Equal(t, Flex("25"), offer.PriceDiscountRate)
	assert.Equal(t, Flex("0.12"), offer.CommissionRate)
	assert.Equal(t, Flex("10.79"), offer.Commission)
	assert.Equal(t, Flex("1500"), offer.Sales)
	assert.Equal(t, Flex("4.8"), offer.Rating)
}
