package scraper

import (
	"strings"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"droscher.com/OhioBrewPath/pkg/model"
)

const planningMarker = "(In Planning)"

// Anchor texts under the entity URL prefix that are category or filter
// links rather than breweries.
var excludedLinkText = map[string]struct{}{
	"show all":              {},
	"breweries-in-planning": {},
	"cidery/meadery":        {},
	"greater cincinnati":    {},
	"greater cleveland":     {},
	"greater columbus":      {},
	"north central":         {},
	"northeast":             {},
	"northwest":             {},
	"southeast":             {},
	"southwest":             {},
	"state line":            {},
	"west central":          {},
	"breweries":             {},
}

// DiscoverBreweries fetches the listing page and returns unique seeds
// in document order. An empty result is not an error; the caller
// decides whether that is fatal. A fetch failure is.
func (s *Scraper) DiscoverBreweries() ([]model.Seed, error) {
	collector := s.newCollector()

	var seeds []model.Seed

	seen := make(map[string]struct{})

	collector.OnHTML("a[href]", func(element *colly.HTMLElement) {
		seed, ok := seedFromAnchor(element.Text, element.Attr("href"), s.cfg.EntityPrefix)
		if !ok {
			return
		}

		if _, duplicate := seen[seed.DetailURL]; duplicate {
			return
		}

		seen[seed.DetailURL] = struct{}{}
		seeds = append(seeds, seed)
	})

	collector.OnError(func(response *colly.Response, err error) {
		s.logger.Error("error fetching brewery listing", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	if err := collector.Visit(s.cfg.ListingURL); err != nil {
		return nil, err
	}

	s.logger.Info("discovered breweries", zap.Int("count", len(seeds)))

	return seeds, nil
}

// seedFromAnchor turns one listing anchor into a seed. Anchors outside
// the entity prefix, with an empty path suffix, or whose text matches
// the category exclusion set are dropped. The "(In Planning)" marker
// is stripped from the name and recorded as the planning status.
func seedFromAnchor(text, href, entityPrefix string) (model.Seed, bool) {
	if !strings.HasPrefix(href, entityPrefix) || len(href) <= len(entityPrefix) {
		return model.Seed{}, false
	}

	name := strings.TrimSpace(text)
	if name == "" {
		return model.Seed{}, false
	}

	if _, excluded := excludedLinkText[strings.ToLower(name)]; excluded {
		return model.Seed{}, false
	}

	status := model.StatusActive

	if strings.Contains(name, planningMarker) {
		name = strings.TrimSpace(strings.ReplaceAll(name, planningMarker, ""))
		status = model.StatusPlanning
	}

	if name == "" {
		return model.Seed{}, false
	}

	return model.Seed{Name: name, DetailURL: href, Status: status}, true
}
