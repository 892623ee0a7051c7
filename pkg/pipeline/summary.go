package pipeline

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Summary is the run-end report: how many records were touched, which
// regions were corrected, and which cities and labels could not be
// resolved.
type Summary struct {
	mu sync.Mutex

	Processed           int
	Updated             int
	Geocoded            int
	FetchFailures       int
	GeocodeFailures     int
	UnresolvedAddresses int

	// CorrectedRegions counts corrections keyed as "city: old -> new".
	CorrectedRegions map[string]int
	// UnmappedCities counts records whose city has no county mapping.
	UnmappedCities map[string]int
	// UnknownLabels counts region labels the normalizer did not know.
	UnknownLabels map[string]int
}

func NewSummary() *Summary {
	return &Summary{
		CorrectedRegions: make(map[string]int),
		UnmappedCities:   make(map[string]int),
		UnknownLabels:    make(map[string]int),
	}
}

func (s *Summary) add(update func(*Summary)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update(s)
}

func (s *Summary) recordCorrection(city, oldRegion, newRegion string) {
	if oldRegion == "" {
		oldRegion = "none"
	}

	s.CorrectedRegions[fmt.Sprintf("%s: %s -> %s", city, oldRegion, newRegion)]++
}

// Log writes the run-end summary.
func (s *Summary) Log(logger *zap.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("run summary",
		zap.Int("processed", s.Processed),
		zap.Int("updated", s.Updated),
		zap.Int("geocoded", s.Geocoded),
		zap.Int("fetch_failures", s.FetchFailures),
		zap.Int("geocode_failures", s.GeocodeFailures),
		zap.Int("unresolved_addresses", s.UnresolvedAddresses),
		zap.Int("corrected_regions", len(s.CorrectedRegions)),
	)

	for correction, count := range s.CorrectedRegions {
		logger.Info("region corrected", zap.String("change", correction), zap.Int("records", count))
	}

	for city, count := range s.UnmappedCities {
		logger.Warn("city without county mapping", zap.String("city", city), zap.Int("records", count))
	}

	for label, count := range s.UnknownLabels {
		logger.Warn("unknown region label", zap.String("label", label), zap.Int("records", count))
	}
}
