package model

import "strings"

// Sentinel values carried over from the source data set. They mean
// "not yet resolved", which is distinct from a missing field.
const (
	Unknown = "Unknown"
	NA      = "N/A"
)

const (
	StatusActive   = "active"
	StatusPlanning = "planning"
)

// Seed is the minimal record produced by listing discovery, before any
// detail page has been fetched.
type Seed struct {
	Name      string
	DetailURL string
	Status    string
}

// Brewery is one directory record. JSON tags match the field names of
// the persisted store; gorm tags support the database export.
type Brewery struct {
	ID          int               `gorm:"primaryKey"                     json:"id"`
	Name        string            `json:"name"`
	DetailURL   string            `gorm:"uniqueIndex:idx_brewery_detail" json:"detail_url"`
	Status      string            `json:"status"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Zip         string            `json:"zip"`
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
	Region      *string           `json:"region"`
	Phone       *string           `json:"phone"`
	Website     *string           `json:"website"`
	BreweryType *string           `json:"brewery_type"`
	Description *string           `json:"description"`
	ImageURL    *string           `json:"image_url"`
	Amenities   []string          `gorm:"serializer:json"                json:"amenities"`
	Hours       map[string]string `gorm:"serializer:json"                json:"hours"`
}

// IsSentinel reports whether value is a placeholder rather than real data.
func IsSentinel(value string) bool {
	return value == Unknown || value == NA
}

// HasCoordinates reports whether both coordinates are set. Records with
// coordinates are skipped entirely by the enrichment network calls.
func (b *Brewery) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}

// SetCoordinates sets both coordinates together; they are never set
// one without the other.
func (b *Brewery) SetCoordinates(lat, lng float64) {
	b.Latitude = &lat
	b.Longitude = &lng
}

// GeocodeQuery builds the lookup string for the geocoding service from
// the address components, dropping empty and sentinel values. An empty
// result means the record has nothing usable to geocode.
func (b *Brewery) GeocodeQuery() string {
	parts := make([]string, 0, 4)

	for _, component := range []string{b.Address, b.City, b.State, b.Zip} {
		if component != "" && !IsSentinel(component) {
			parts = append(parts, component)
		}
	}

	return strings.Join(parts, ", ")
}
