package pipeline

import (
	"context"
	"sync"

	"go.openly.dev/pointy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"droscher.com/OhioBrewPath/pkg/geo"
	"droscher.com/OhioBrewPath/pkg/geocode"
	"droscher.com/OhioBrewPath/pkg/model"
	"droscher.com/OhioBrewPath/pkg/scraper"
	"droscher.com/OhioBrewPath/pkg/store"
)

// Source lists breweries on the index page and fetches their detail
// pages.
type Source interface {
	DiscoverBreweries() ([]model.Seed, error)
	FetchDetails(detailURL string) (scraper.Details, error)
}

// Geocoder resolves a formatted address to a coordinate pair, or nil
// when the service has no result.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (*geocode.Point, error)
}

// Enricher drives one pipeline pass over the record store: discover,
// fetch, extract, geocode, classify, persist. Per-record failures are
// isolated; only configuration, discovery and store errors abort a
// run.
type Enricher struct {
	store      *store.Store
	source     Source
	geocoder   Geocoder
	classifier *geo.Classifier
	normalizer *geo.Normalizer
	logger     *zap.Logger
	workers    int
}

func NewEnricher(recordStore *store.Store, source Source, geocoder Geocoder, classifier *geo.Classifier, normalizer *geo.Normalizer, workers int, logger *zap.Logger) *Enricher {
	if workers < 1 {
		workers = 1
	}

	return &Enricher{
		store:      recordStore,
		source:     source,
		geocoder:   geocoder,
		classifier: classifier,
		normalizer: normalizer,
		logger:     logger,
		workers:    workers,
	}
}

// Run executes a full enrichment pass. Discovery failure is fatal and
// leaves the store untouched. After the pass the merged collection is
// written back as one snapshot; on cancellation the snapshot contains
// only records whose merge completed.
func (e *Enricher) Run(ctx context.Context) (*Summary, error) {
	collection, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	seeds, err := e.source.DiscoverBreweries()
	if err != nil {
		return nil, err
	}

	for _, seed := range seeds {
		collection.Upsert(seed)
	}

	summary := NewSummary()

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)

	for _, record := range collection.All() {
		if groupCtx.Err() != nil {
			break
		}

		record := record

		group.Go(func() error {
			e.enrichRecord(groupCtx, record, summary, &mu)

			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // workers never return errors; failures are isolated

	if err := e.store.Save(collection); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	return summary, nil
}

// enrichRecord runs the network phase for one record and applies the
// results in two atomic merge steps. Records that already have both
// coordinates skip every network call.
func (e *Enricher) enrichRecord(ctx context.Context, record *model.Brewery, summary *Summary, mu *sync.Mutex) {
	mu.Lock()
	skip := record.HasCoordinates()
	detailURL := record.DetailURL
	name := record.Name
	mu.Unlock()

	summary.add(func(s *Summary) { s.Processed++ })

	if skip {
		mu.Lock()
		e.resolveRegion(record, summary)
		mu.Unlock()

		return
	}

	details, err := e.source.FetchDetails(detailURL)
	if err != nil {
		e.logger.Warn("failed to fetch detail page, keeping prior values",
			zap.String("name", name), zap.String("url", detailURL), zap.Error(err))
		summary.add(func(s *Summary) { s.FetchFailures++ })

		return
	}

	if !details.SectionFound {
		e.logger.Warn("no details section on page, record left as is",
			zap.String("name", name), zap.String("url", detailURL))
	}

	mu.Lock()
	if mergeDetails(record, details) {
		summary.add(func(s *Summary) { s.Updated++ })
	}

	needsGeocode := !record.HasCoordinates()
	query := record.GeocodeQuery()
	mu.Unlock()

	if needsGeocode && query != "" {
		point, err := e.geocoder.Lookup(ctx, query)

		switch {
		case err != nil:
			e.logger.Warn("geocode lookup failed", zap.String("name", name), zap.String("address", query), zap.Error(err))
			summary.add(func(s *Summary) { s.GeocodeFailures++ })
		case point == nil:
			summary.add(func(s *Summary) { s.UnresolvedAddresses++ })
		default:
			mu.Lock()
			record.SetCoordinates(point.Lat, point.Lng)
			mu.Unlock()
			summary.add(func(s *Summary) { s.Geocoded++ })
		}
	}

	mu.Lock()
	e.resolveRegion(record, summary)
	mu.Unlock()
}

// mergeDetails applies extracted fields additively. A field already
// holding a non-sentinel value is only ever replaced by another real
// value, never by a sentinel or blank.
func mergeDetails(record *model.Brewery, details scraper.Details) bool {
	changed := false

	apply := func(target *string, value string) {
		if value != "" && !model.IsSentinel(value) && *target != value {
			*target = value
			changed = true
		}
	}

	apply(&record.Address, details.Address)
	apply(&record.City, details.City)
	apply(&record.State, details.State)
	apply(&record.Zip, details.Zip)

	if details.Phone != "" && (record.Phone == nil || *record.Phone != details.Phone) {
		record.Phone = pointy.String(details.Phone)
		changed = true
	}

	if details.Website != "" && (record.Website == nil || *record.Website != details.Website) {
		record.Website = pointy.String(details.Website)
		changed = true
	}

	return changed
}

// resolveRegion revalidates the region field. City classification is
// authoritative when it resolves; otherwise the existing label is
// normalized in place. Misses are reported, never written to the
// record.
func (e *Enricher) resolveRegion(record *model.Brewery, summary *Summary) {
	current := ""
	if record.Region != nil {
		current = *record.Region
	}

	if region, found := e.classifier.RegionForCity(record.City); found {
		if current != string(region) {
			record.Region = pointy.String(string(region))
			summary.add(func(s *Summary) { s.recordCorrection(record.City, current, string(region)) })
		}

		return
	}

	if record.City != "" && !model.IsSentinel(record.City) {
		summary.add(func(s *Summary) { s.UnmappedCities[record.City]++ })
	}

	if current == "" {
		return
	}

	region, found := e.normalizer.Canonical(current)
	if !found {
		summary.add(func(s *Summary) { s.UnknownLabels[current]++ })

		return
	}

	if current != string(region) {
		record.Region = pointy.String(string(region))
		summary.add(func(s *Summary) { s.recordCorrection(record.City, current, string(region)) })
	}
}
