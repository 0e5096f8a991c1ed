package shopee

import (
	"github.com/xeipuuv/gojsonschema"
)

// searchPayloadSchema validates the shape of the productOfferV2 payload
// before any node is normalized. Numeric-ish fields are allowed to arrive as
// either strings or numbers; itemId must be present on every node.
const searchPayloadSchema = `{
  "type": "object",
  "required": ["productOfferV2"],
  "properties": {
    "productOfferV2": {
      "type": "object",
      "required": ["nodes"],
      "properties": {
        "nodes": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["itemId"],
            "properties": {
              "itemId":            {"type": ["string", "number"]},
              "productName":       {"type": ["string", "null"]},
              "priceMin":          {"type": ["string", "number", "null"]},
              "priceMax":          {"type": ["string", "number", "null"]},
              "priceDiscountRate": {"type": ["string", "number", "null"]},
              "commission":        {"type": ["string", "number", "null"]},
              "commissionRate":    {"type": ["string", "number", "null"]},
              "sales":             {"type": ["string", "number", "null"]},
              "ratingStar":        {"type": ["string", "number", "null"]}
            }
          }
        },
        "pageInfo": {"type": ["object", "null"]}
      }
    }
  }
}`

var compiledSearchSchema = gojsonschema.NewStringLoader(searchPayloadSchema)

// validateSearchPayload checks a raw search payload against the documented
// response shape. A violation surfaces as MalformedResponseError so the
// caller can distinguish it from coded API errors.
func validateSearchPayload(payload []byte) error {
	result, err := gojsonschema.Validate(compiledSearchSchema, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &MalformedResponseError{Detail: "payload is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		detail := "schema violation"
		if errs := result.Errors(); len(errs) > 0 {
			detail = errs[0].String()
		}
		return &MalformedResponseError{Detail: detail}
	}
	return nil
}
