package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
	"go.uber.org/zap/zaptest"

	"droscher.com/OhioBrewPath/pkg/geo"
	"droscher.com/OhioBrewPath/pkg/geocode"
	"droscher.com/OhioBrewPath/pkg/model"
	"droscher.com/OhioBrewPath/pkg/pipeline"
	"droscher.com/OhioBrewPath/pkg/scraper"
	"droscher.com/OhioBrewPath/pkg/store"
)

type fakeSource struct {
	mu          sync.Mutex
	seeds       []model.Seed
	discoverErr error
	details     map[string]scraper.Details
	fetchErrs   map[string]error
	fetched     []string
}

func (f *fakeSource) DiscoverBreweries() ([]model.Seed, error) {
	return f.seeds, f.discoverErr
}

func (f *fakeSource) FetchDetails(detailURL string) (scraper.Details, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, detailURL)
	f.mu.Unlock()

	if err, found := f.fetchErrs[detailURL]; found {
		return scraper.Details{}, err
	}

	return f.details[detailURL], nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.fetched)
}

type fakeGeocoder struct {
	mu     sync.Mutex
	points map[string]*geocode.Point
	err    error
	calls  []string
}

func (f *fakeGeocoder) Lookup(_ context.Context, address string) (*geocode.Point, error) {
	f.mu.Lock()
	f.calls = append(f.calls, address)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	return f.points[address], nil
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func testEnricher(t *testing.T, source pipeline.Source, geocoder pipeline.Geocoder) (*pipeline.Enricher, *store.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "breweries.json")
	recordStore := store.New(path, zaptest.NewLogger(t))

	tables, err := geo.DefaultTables()
	require.NoError(t, err)

	enricher := pipeline.NewEnricher(recordStore, source, geocoder,
		geo.NewClassifier(tables), geo.NewNormalizer(tables), 2, zaptest.NewLogger(t))

	return enricher, recordStore, path
}

func seedStore(t *testing.T, path string, records []model.Brewery) {
	t.Helper()

	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestRun_FullPass(t *testing.T) {
	source := &fakeSource{
		seeds: []model.Seed{
			{Name: "Jackie O's", DetailURL: "https://example.org/breweries/jackie-os/", Status: model.StatusActive},
			{Name: "Little Fish", DetailURL: "https://example.org/breweries/little-fish/", Status: model.StatusActive},
		},
		details: map[string]scraper.Details{
			"https://example.org/breweries/jackie-os/": {
				Address: "25 Campbell St", City: "Athens", State: "OH", Zip: "45701",
				Phone: "(740) 555-0123", Website: "https://jackieos.com", SectionFound: true,
			},
			"https://example.org/breweries/little-fish/": {
				Address: "8675 Armitage Rd", City: "Athens", State: "OH", Zip: "45701", SectionFound: true,
			},
		},
	}
	geocoder := &fakeGeocoder{points: map[string]*geocode.Point{
		"25 Campbell St, Athens, OH, 45701":   {Lat: 39.3292, Lng: -82.1013},
		"8675 Armitage Rd, Athens, OH, 45701": {Lat: 39.3790, Lng: -82.1290},
	}}

	enricher, recordStore, _ := testEnricher(t, source, geocoder)

	summary, err := enricher.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 2, summary.Geocoded)
	assert.Equal(t, 0, summary.FetchFailures)

	collection, err := recordStore.Load()
	require.NoError(t, err)

	record, found := collection.FindByURL("https://example.org/breweries/jackie-os/")
	require.True(t, found)
	assert.Equal(t, 1, record.ID)
	assert.Equal(t, "25 Campbell St", record.Address)
	assert.Equal(t, "Athens", record.City)
	assert.Equal(t, "45701", record.Zip)
	assert.Equal(t, "(740) 555-0123", *record.Phone)
	assert.Equal(t, "https://jackieos.com", *record.Website)
	require.True(t, record.HasCoordinates())
	assert.InDelta(t, 39.3292, *record.Latitude, 0.0001)
	require.NotNil(t, record.Region)
	assert.Equal(t, "southeast", *record.Region)
}

func TestRun_SkipsRecordsWithCoordinates(t *testing.T) {
	source := &fakeSource{}
	geocoder := &fakeGeocoder{}

	enricher, _, path := testEnricher(t, source, geocoder)
	seedStore(t, path, []model.Brewery{{
		ID: 1, Name: "Jackie O's", DetailURL: "https://example.org/breweries/jackie-os/",
		Address: "25 Campbell St", City: "Athens", State: "OH", Zip: "45701",
		Latitude: pointy.Float64(39.3292), Longitude: pointy.Float64(-82.1013),
	}})

	summary, err := enricher.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, source.fetchCount())
	assert.Equal(t, 0, geocoder.callCount())
	assert.Equal(t, 1, summary.Processed)
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	source := &fakeSource{
		seeds: []model.Seed{{Name: "Jackie O's", DetailURL: "https://example.org/breweries/jackie-os/", Status: model.StatusActive}},
		details: map[string]scraper.Details{
			"https://example.org/breweries/jackie-os/": {
				Address: "25 Campbell St", City: "Athens", State: "OH", Zip: "45701", SectionFound: true,
			},
		},
	}
	geocoder := &fakeGeocoder{points: map[string]*geocode.Point{
		"25 Campbell St, Athens, OH, 45701": {Lat: 39.3292, Lng: -82.1013},
	}}

	enricher, recordStore, _ := testEnricher(t, source, geocoder)

	_, err := enricher.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, geocoder.callCount())

	_, err = enricher.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, geocoder.callCount(), "records with coordinates must never be geocoded again")
	assert.Equal(t, 1, source.fetchCount())

	collection, err := recordStore.Load()
	require.NoError(t, err)

	record, _ := collection.FindByURL("https://example.org/breweries/jackie-os/")
	assert.Equal(t, 1, record.ID)
	assert.InDelta(t, 39.3292, *record.Latitude, 0.0001)
}

func TestRun_MergeIsNonDestructive(t *testing.T) {
	source := &fakeSource{
		seeds: []model.Seed{{Name: "Jackie O's", DetailURL: "https://example.org/breweries/jackie-os/", Status: model.StatusActive}},
		details: map[string]scraper.Details{
			// The extractor found nothing this time around.
			"https://example.org/breweries/jackie-os/": {SectionFound: false},
		},
	}
	geocoder := &fakeGeocoder{}

	enricher, recordStore, path := testEnricher(t, source, geocoder)
	seedStore(t, path, []model.Brewery{{
		ID: 1, Name: "Jackie O's", DetailURL: "https://example.org/breweries/jackie-os/",
		Address: "25 Campbell St", City: "Athens", State: "OH", Zip: "45701",
		Phone: pointy.String("(740) 555-0123"), Website: pointy.String("https://jackieos.com"),
	}})

	_, err := enricher.Run(context.Background())
	require.NoError(t, err)

	collection, err := recordStore.Load()
	require.NoError(t, err)

	record, _ := collection.FindByURL("https://example.org/breweries/jackie-os/")
	assert.Equal(t, "25 Campbell St", record.Address)
	assert.Equal(t, "Athens", record.City)
	assert.Equal(t, "(740) 555-0123", *record.Phone)
	assert.Equal(t, "https://jackieos.com", *record.Website)
}

func TestRun_DiscoveryFailureLeavesStoreUntouched(t *testing.T) {
	source := &fakeSource{discoverErr: errors.New("listing unreachable")}
	geocoder := &fakeGeocoder{}

	enricher, _, path := testEnricher(t, source, geocoder)
	seedStore(t, path, []model.Brewery{{ID: 1, Name: "Jackie O's", DetailURL: "https://example.org/breweries/jackie-os/"}})

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = enricher.Run(context.Background())
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_PerRecordFailuresAreIsolated(t *testing.T) {
	source := &fakeSource{
		seeds: []model.Seed{
			{Name: "Broken", DetailURL: "https://example.org/breweries/broken/", Status: model.StatusActive},
			{Name: "Little Fish", DetailURL: "https://example.org/breweries/little-fish/", Status: model.StatusActive},
		},
		details: map[string]scraper.Details{
			"https://example.org/breweries/little-fish/": {
				Address: "8675 Armitage Rd", City: "Athens", State: "OH", Zip: "45701", SectionFound: true,
			},
		},
		fetchErrs: map[string]error{
			"https://example.org/breweries/broken/": errors.New("connection reset"),
		},
	}
	geocoder := &fakeGeocoder{points: map[string]*geocode.Point{
		"8675 Armitage Rd, Athens, OH, 45701": {Lat: 39.3790, Lng: -82.1290},
	}}

	enricher, recordStore, _ := testEnricher(t, source, geocoder)

	summary, err := enricher.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FetchFailures)
	assert.Equal(t, 1, summary.Geocoded)

	collection, err := recordStore.Load()
	require.NoError(t, err)
	require.Equal(t, 2, collection.Len())

	broken, _ := collection.FindByURL("https://example.org/breweries/broken/")
	assert.Equal(t, model.Unknown, broken.Address)
	assert.False(t, broken.HasCoordinates())

	fish, _ := collection.FindByURL("https://example.org/breweries/little-fish/")
	assert.True(t, fish.HasCoordinates())
}

func TestRun_GeocodeTransportFailureIsReported(t *testing.T) {
	source := &fakeSource{
		seeds: []model.Seed{{Name: "Jackie O's", DetailURL: "https://example.org/breweries/jackie-os/", Status: model.StatusActive}},
		details: map[string]scraper.Details{
			"https://example.org/breweries/jackie-os/": {
				Address: "25 Campbell St", City: "Athens", State: "OH", Zip: "45701", SectionFound: true,
			},
		},
	}
	geocoder := &fakeGeocoder{err: errors.New("dial timeout")}

	enricher, recordStore, _ := testEnricher(t, source, geocoder)

	summary, err := enricher.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GeocodeFailures)

	collection, err := recordStore.Load()
	require.NoError(t, err)

	record, _ := collection.FindByURL("https://example.org/breweries/jackie-os/")
	assert.False(t, record.HasCoordinates())
	assert.Equal(t, "25 Campbell St", record.Address)
}

func TestGeocodeMissing_OnlyTouchesRecordsWithoutCoordinates(t *testing.T) {
	geocoder := &fakeGeocoder{points: map[string]*geocode.Point{
		"25 Campbell St, Athens, OH, 45701": {Lat: 39.3292, Lng: -82.1013},
	}}

	enricher, recordStore, path := testEnricher(t, &fakeSource{}, geocoder)
	seedStore(t, path, []model.Brewery{
		{
			ID: 1, Name: "Has Coords", DetailURL: "https://example.org/breweries/a/",
			Address: "1 Done St", City: "Athens", State: "OH", Zip: "45701",
			Latitude: pointy.Float64(39.0), Longitude: pointy.Float64(-82.0),
		},
		{
			ID: 2, Name: "Needs Coords", DetailURL: "https://example.org/breweries/b/",
			Address: "25 Campbell St", City: "Athens", State: "OH", Zip: "45701",
		},
		{
			ID: 3, Name: "No Address", DetailURL: "https://example.org/breweries/c/",
			Address: model.Unknown, City: model.NA,
		},
	})

	summary, err := enricher.GeocodeMissing(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, geocoder.callCount())
	assert.Equal(t, "25 Campbell St, Athens, OH, 45701", geocoder.calls[0])
	assert.Equal(t, 1, summary.Geocoded)
	assert.Equal(t, 1, summary.UnresolvedAddresses)

	collection, err := recordStore.Load()
	require.NoError(t, err)

	needs, _ := collection.FindByURL("https://example.org/breweries/b/")
	require.True(t, needs.HasCoordinates())
	assert.InDelta(t, -82.1013, *needs.Longitude, 0.0001)
}

func TestNormalizeRegions_CorrectsAndReports(t *testing.T) {
	enricher, recordStore, path := testEnricher(t, &fakeSource{}, &fakeGeocoder{})
	seedStore(t, path, []model.Brewery{
		{ID: 1, Name: "Alias", DetailURL: "https://example.org/breweries/a/", City: "Hilliard", Region: pointy.String("Greater Cincinnati")},
		{ID: 2, Name: "Override", DetailURL: "https://example.org/breweries/b/", City: "Logan", Region: pointy.String("southwest")},
		{ID: 3, Name: "Unknown Label", DetailURL: "https://example.org/breweries/c/", City: "Hilliard", Region: pointy.String("Mars")},
		{ID: 4, Name: "No Region", DetailURL: "https://example.org/breweries/d/", City: model.Unknown},
	})

	summary, err := enricher.NormalizeRegions(context.Background())
	require.NoError(t, err)

	collection, err := recordStore.Load()
	require.NoError(t, err)

	alias, _ := collection.FindByURL("https://example.org/breweries/a/")
	assert.Equal(t, "southwest", *alias.Region)

	override, _ := collection.FindByURL("https://example.org/breweries/b/")
	assert.Equal(t, "southeast", *override.Region)

	unknown, _ := collection.FindByURL("https://example.org/breweries/c/")
	assert.Equal(t, "Mars", *unknown.Region, "unknown labels are reported, never mutated")
	assert.Equal(t, 1, summary.UnknownLabels["Mars"])
	assert.Equal(t, 2, summary.UnmappedCities["Hilliard"])

	none, _ := collection.FindByURL("https://example.org/breweries/d/")
	assert.Nil(t, none.Region)
}
