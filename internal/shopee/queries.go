package shopee

// GraphQL documents for the affiliate API. Variable builders live next to
// them so the request shape is defined in one place.

const productOfferV2Query = `query ProductOfferV2($request: ProductSearchRequest!) {
  productOfferV2(request: $request) {
    nodes {
      itemId
      productName
      productLink
      offerLink
      originUrl
      priceMin
      priceMax
      priceDiscountRate
      commission
      commissionRate
      shopName
      sales
      ratingStar
      imageUrl
    }
    pageInfo {
      page
      limit
      hasNextPage
    }
  }
}`

const generateShortLinkMutation = `mutation GenerateShortLink($request: GenerateShortLinkRequest!) {
  generateShortLink(request: $request) {
    shortLink
  }
}`

const conversionReportQuery = `query ConversionReport($request: ConversionReportRequest!) {
  conversionReport(request: $request) {
    nodes
    scrollId
    hasNextPage
  }
}`

// SearchParams describes one productOfferV2 page request.
type SearchParams struct {
	Keywords   []string
	Limit      int
	Page       int
	CategoryID int64 // zero means no category filter
	ListType   string
}

// maxSubIDs is the API's cap on tracking sub-identifiers per link.
const maxSubIDs = 5

func buildSearchVariables(p SearchParams) map[string]any {
	req := map[string]any{
		"keywords": p.Keywords,
		"limit":    p.Limit,
		"page":     p.Page,
	}
	if p.ListType != "" {
		req["listType"] = p.ListType
	}
	if p.CategoryID != 0 {
		req["productCatId"] = []int64{p.CategoryID}
	}
	return map[string]any{"request": req}
}

func buildShortLinkVariables(originURL string, subIDs []string) map[string]any {
	if len(subIDs) > maxSubIDs {
		subIDs = subIDs[:maxSubIDs]
	}
	return map[string]any{
		"request": map[string]any{
			"originUrl": originURL,
			"subIds":    subIDs,
		},
	}
}

// ReportParams describes one conversion-report page request.
type ReportParams struct {
	Start    int64
	End      int64
	Page     int
	Limit    int
	ScrollID string
}

func buildReportVariables(p ReportParams) map[string]any {
	req := map[string]any{
		"start": p.Start,
		"end":   p.End,
		"page":  p.Page,
		"limit": p.Limit,
	}
	if p.ScrollID != "" {
		req["scrollId"] = p.ScrollID
	}
	return map[string]any{"request": req}
}
