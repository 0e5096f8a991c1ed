// Package linkgen builds tracking sub-ids and resolves trackable short
// links through a freshness-bounded, store-backed cache.
package linkgen

import (
	"regexp"
	"time"
)

// Campaign types embedded in tracking sub-ids.
const (
	CampaignCuration = "curadoria"
	CampaignManual   = "manual"
)

// maxSubIDs is the API cap on sub-ids per link.
const maxSubIDs = 5

// maxTagLen truncates the optional tag sub-id.
const maxTagLen = 20

// subIDTimestampLayout renders YYYYMMDDHHMM.
const subIDTimestampLayout = "200601021504"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// sanitize strips every character that is not an ASCII letter or digit.
// Accented letters are removed entirely, not transliterated ("ação" becomes
// "ao"). Sub-ids only need lossy-but-stable identifiers; changing this
// would break tracking continuity with already-issued links.
func sanitize(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// BuildSubIDs produces the ordered sub-id list for a generated link:
// ["tg", "grupo<hash>", <campaign>, <YYYYMMDDHHMM>] plus the sanitized tag,
// truncated to 20 characters, only when it is non-empty after sanitizing.
// A zero ts means now.
func BuildSubIDs(campaignType, channelHash string, ts time.Time, tag string) []string {
	if ts.IsZero() {
		ts = time.Now()
	}

	subIDs := []string{
		"tg",
		sanitize("grupo" + channelHash),
		sanitize(campaignType),
		sanitize(ts.Format(subIDTimestampLayout)),
	}

	if tag != "" {
		clean := sanitize(tag)
		if len(clean) > maxTagLen {
			clean = clean[:maxTagLen]
		}
		if clean != "" {
			subIDs = append(subIDs, clean)
		}
	}

	if len(subIDs) > maxSubIDs {
		subIDs = subIDs[:maxSubIDs]
	}
	return subIDs
}
