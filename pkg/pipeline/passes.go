package pipeline

import (
	"context"

	"go.uber.org/zap"
)

// GeocodeMissing runs a geocode-only pass over records that are
// missing coordinates. Records with both coordinates are never sent to
// the resolver.
func (e *Enricher) GeocodeMissing(ctx context.Context) (*Summary, error) {
	collection, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	summary := NewSummary()

	for _, record := range collection.All() {
		if ctx.Err() != nil {
			break
		}

		if record.HasCoordinates() {
			continue
		}

		summary.Processed++

		query := record.GeocodeQuery()
		if query == "" {
			e.logger.Warn("skipping record with no usable address", zap.String("name", record.Name))
			summary.UnresolvedAddresses++

			continue
		}

		point, err := e.geocoder.Lookup(ctx, query)

		switch {
		case err != nil:
			e.logger.Warn("geocode lookup failed", zap.String("name", record.Name), zap.String("address", query), zap.Error(err))
			summary.GeocodeFailures++
		case point == nil:
			e.logger.Info("address did not resolve", zap.String("name", record.Name), zap.String("address", query))
			summary.UnresolvedAddresses++
		default:
			record.SetCoordinates(point.Lat, point.Lng)
			summary.Geocoded++
			summary.Updated++
		}
	}

	if err := e.store.Save(collection); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	return summary, nil
}

// NormalizeRegions runs the standalone region pass: every record's
// label is normalized and revalidated against the city classification.
// Only the region field is ever touched.
func (e *Enricher) NormalizeRegions(ctx context.Context) (*Summary, error) {
	collection, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	summary := NewSummary()

	for _, record := range collection.All() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Processed++
		e.resolveRegion(record, summary)
	}

	if err := e.store.Save(collection); err != nil {
		return nil, err
	}

	return summary, nil
}
