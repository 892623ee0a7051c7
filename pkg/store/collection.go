package store

import (
	"fmt"

	"droscher.com/OhioBrewPath/pkg/model"
)

// Collection is the in-memory view of the record store. It is the
// single id authority: ids are assigned once at first insertion,
// increase monotonically, and are never reused even when a source
// record disappears.
type Collection struct {
	records []*model.Brewery
	byURL   map[string]*model.Brewery
	nextID  int
}

func newCollection(records []*model.Brewery) (*Collection, error) {
	collection := &Collection{
		records: records,
		byURL:   make(map[string]*model.Brewery, len(records)),
		nextID:  1,
	}

	for _, record := range records {
		if _, found := collection.byURL[record.DetailURL]; found {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDetailURL, record.DetailURL)
		}

		collection.byURL[record.DetailURL] = record

		if record.ID >= collection.nextID {
			collection.nextID = record.ID + 1
		}
	}

	return collection, nil
}

func (c *Collection) Len() int {
	return len(c.records)
}

// All returns the records in store order.
func (c *Collection) All() []*model.Brewery {
	return c.records
}

func (c *Collection) FindByURL(detailURL string) (*model.Brewery, bool) {
	record, found := c.byURL[detailURL]

	return record, found
}

// Upsert merges a discovery seed into the collection. A new record
// gets the next id and sentinel address fields so essential fields are
// always populated even if all enrichment fails. An existing record
// keeps its id; only the listing-sourced name and status are
// refreshed.
func (c *Collection) Upsert(seed model.Seed) *model.Brewery {
	if record, found := c.byURL[seed.DetailURL]; found {
		if seed.Name != "" {
			record.Name = seed.Name
		}

		if seed.Status != "" {
			record.Status = seed.Status
		}

		return record
	}

	record := &model.Brewery{
		ID:        c.nextID,
		Name:      seed.Name,
		DetailURL: seed.DetailURL,
		Status:    seed.Status,
		Address:   model.Unknown,
		City:      model.Unknown,
		State:     "OH",
		Zip:       model.Unknown,
		Amenities: []string{},
		Hours:     map[string]string{},
	}

	c.nextID++
	c.records = append(c.records, record)
	c.byURL[record.DetailURL] = record

	return record
}
