package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

var ErrNoDocument = errors.New("detail page returned no parseable document")

// Details is the partial record extracted from one brewery detail
// page. Empty fields were not extractable; that is never an error.
type Details struct {
	Address string
	City    string
	State   string
	Zip     string
	Phone   string
	Website string
	// SectionFound is false when the page has no recognizable
	// "Details" section. Callers log it and keep prior field values.
	SectionFound bool
}

// FetchDetails fetches one detail page and extracts whatever fields it
// can. Only transport and parse level failures are errors.
func (s *Scraper) FetchDetails(detailURL string) (Details, error) {
	collector := s.newCollector()

	var (
		details Details
		parsed  bool
	)

	collector.OnHTML("html", func(element *colly.HTMLElement) {
		details = ExtractDetails(element.DOM)
		parsed = true
	})

	collector.OnError(func(response *colly.Response, err error) {
		s.logger.Error("error fetching detail page", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	if err := collector.Visit(detailURL); err != nil {
		return Details{}, err
	}

	if !parsed {
		return Details{}, ErrNoDocument
	}

	return details, nil
}

// ExtractDetails runs the ordered extraction heuristics over a parsed
// detail document. The page layout is loosely structured, so each
// field has a primary strategy and a fallback; the first hit wins and
// misses leave the field empty.
func ExtractDetails(doc *goquery.Selection) Details {
	details := Details{}

	heading := doc.Find("h2, h3, h4").FilterFunction(func(_ int, selection *goquery.Selection) bool {
		return strings.Contains(selection.Text(), "Details")
	}).First()

	if heading.Length() == 0 {
		return details
	}

	details.SectionFound = true

	container := heading.Parent()
	if container.Length() == 0 {
		container = heading
	}

	extractAddress(container, &details)
	details.Website = extractWebsite(container)
	details.Phone = extractPhone(container)

	return details
}

// extractAddress reads the first sub-heading of the details container
// as the street address, then splits the following "..., Ohio ..."
// text into city, state and zip.
func extractAddress(container *goquery.Selection, details *Details) {
	street := container.Find("h5").First()
	if street.Length() == 0 {
		return
	}

	details.Address = strings.TrimSpace(street.Text())

	cityStateZip := textAfter(container.Get(0), street.Get(0), func(text string) bool {
		return strings.Contains(text, "Ohio")
	})
	if cityStateZip == "" {
		return
	}

	parts := strings.Split(cityStateZip, ",")
	if len(parts) < 2 {
		return
	}

	details.City = strings.TrimSpace(parts[0])

	stateZip := strings.Fields(strings.TrimSpace(parts[1]))
	if len(stateZip) >= 2 && stateZip[0] == "Ohio" {
		details.State = "OH"
		details.Zip = stateZip[len(stateZip)-1]
	}
}

// extractWebsite takes the first anchor in the details container that
// is not a map link, a mailto link, or the "(map it)" shortcut. When
// none qualifies it falls back to the anchor following a "Website:"
// label.
func extractWebsite(container *goquery.Selection) string {
	var website string

	container.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		text := strings.TrimSpace(link.Text())

		if strings.Contains(href, "google.com/maps") || strings.HasPrefix(href, "mailto:") || text == "(map it)" {
			return true
		}

		website = href

		return false
	})

	if website != "" {
		return website
	}

	label := findText(container.Get(0), func(text string) bool {
		return strings.Contains(text, "Website:")
	})
	if label == nil {
		return ""
	}

	if anchor := anchorAfter(container.Get(0), label); anchor != nil {
		return attrValue(anchor, "href")
	}

	return ""
}

// extractPhone splits the text after a "Phone:" label, falling back to
// the next text node when the number is not in the label node itself.
func extractPhone(container *goquery.Selection) string {
	label := findText(container.Get(0), func(text string) bool {
		return strings.Contains(text, "Phone:")
	})
	if label == nil {
		return ""
	}

	_, remainder, _ := strings.Cut(label.Data, "Phone:")

	remainder = strings.TrimSpace(remainder)
	if remainder != "" && containsDigit(remainder) {
		return remainder
	}

	return textAfter(container.Get(0), label, containsDigit)
}

func containsDigit(text string) bool {
	return strings.ContainsAny(text, "0123456789")
}
