package scraper

import (
	"net/url"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"droscher.com/OhioBrewPath/configs"
)

// Scraper fetches and parses the brewery listing site. One base
// collector is built up front and each operation works on a clone;
// clones share the base collector's backend, so its limit rule spaces
// requests in aggregate no matter how many workers fetch at once.
type Scraper struct {
	cfg       configs.Source
	collector *colly.Collector
	logger    *zap.Logger
}

func New(cfg configs.Source, logger *zap.Logger) *Scraper {
	collector := colly.NewCollector(
		colly.AllowedDomains(allowedHosts(cfg)...),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.SetRequestTimeout(cfg.Timeout)

	err := collector.Limit(&colly.LimitRule{DomainGlob: "*", Delay: cfg.FetchDelay})
	if err != nil {
		logger.Warn("failed to apply fetch delay", zap.Error(err))
	}

	return &Scraper{cfg: cfg, collector: collector, logger: logger}
}

func (s *Scraper) newCollector() *colly.Collector {
	collector := s.collector.Clone()
	collector.SetRequestTimeout(s.cfg.Timeout)

	return collector
}

func allowedHosts(cfg configs.Source) []string {
	hosts := make([]string, 0, 2)
	seen := make(map[string]struct{}, 2)

	for _, raw := range []string{cfg.ListingURL, cfg.EntityPrefix} {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			continue
		}

		if _, found := seen[parsed.Hostname()]; found {
			continue
		}

		seen[parsed.Hostname()] = struct{}{}
		hosts = append(hosts, parsed.Hostname())
	}

	return hosts
}
