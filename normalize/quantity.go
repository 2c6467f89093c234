package normalize

import (
	"regexp"
	"strings"
)

var quantityPattern = regexp.MustCompile(
	`(\d+(?:,\d{3})*(?:\.\d+)?)\s*(km|m|meters?|metres?|coils?|drums?|lengths?|nos?|pcs?|pieces?|units?)\b`)

// ParseQuantity extracts a required quantity and its unit from free text,
// e.g. "25 km" or "100 nos". The quantity is returned with thousands
// separators stripped. Returns ok=false when no quantity is found.
func ParseQuantity(text string) (quantity, unit string, ok bool) {
	m := quantityPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return "", "", false
	}
	return strings.ReplaceAll(m[1], ",", ""), m[2], true
}
