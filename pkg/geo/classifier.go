package geo

import "droscher.com/OhioBrewPath/pkg/model"

// Classifier resolves a city to its canonical region using the static
// lookup tables. It performs no I/O.
type Classifier struct {
	tables *Tables
}

func NewClassifier(tables *Tables) *Classifier {
	return &Classifier{tables: tables}
}

// RegionForCity resolves city to a region. Overrides are authoritative
// and bypass the county lookup. The second return value is false when
// the city is unmapped; callers report that, they do not mutate the
// record.
func (c *Classifier) RegionForCity(city string) (Region, bool) {
	if city == "" || model.IsSentinel(city) {
		return "", false
	}

	if region, found := c.tables.overrides[city]; found {
		return region, true
	}

	county, found := c.tables.cityToCounty[city]
	if !found {
		return "", false
	}

	region, found := c.tables.countyToRegion[county]

	return region, found
}
