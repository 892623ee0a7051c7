package geo

import "strings"

// Labels on the listing site tag in-planning breweries with a region
// suffix, e.g. "Breweries-in-Planning, Northeast".
const planningLabelPrefix = "breweries-in-planning, "

// Normalizer maps free-text region labels to canonical regions.
type Normalizer struct {
	tables *Tables
}

func NewNormalizer(tables *Tables) *Normalizer {
	return &Normalizer{tables: tables}
}

// Canonical normalizes a raw display label. The second return value is
// false when the label is unknown; callers treat a non-empty unknown
// label as a reportable data-quality miss. Empty input is the caller's
// silent-skip case, not a miss.
func (n *Normalizer) Canonical(raw string) (Region, bool) {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.TrimPrefix(label, planningLabelPrefix)

	region, found := n.tables.aliases[label]

	return region, found
}
