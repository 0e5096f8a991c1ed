package shopee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSearchPayload(t *testing.T) {
	valid := `{"productOfferV2": {"nodes": [{"itemId": "1", "priceMin": 10}, {"itemId": 2, "priceMin": "20"}]}}`
	assert.NoError(t, validateSearchPayload([]byte(valid)))

	empty := `{"productOfferV2": {"nodes": []}}`
	assert.NoError(t, validateSearchPayload([]byte(empty)))
}

func TestValidateSearchPayload_Violations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing root", `{}`},
		{"missing nodes", `{"productOfferV2": {}}`},
		{"node without itemId", `{"productOfferV2": {"nodes": [{"productName": "x"}]}}`},
		{"itemId wrong type", `{"productOfferV2": {"nodes": [{"itemId": [1]}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSearchPayload([]byte(tt.payload))
			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
		})
	}
}
