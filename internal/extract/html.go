package extract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/openpaws/policyradar/internal/model"
)

// Validation bounds for candidate records. Tuned against observed listing
// pages; candidates outside these bounds are discarded, not repaired.
const (
	minTitleLen  = 10
	maxTitleLen  = 500
	minDescLen   = 20
	titleCap     = 200
	descCap      = 1000
	fallbackDesc = 300
	maxPerPage   = 10
)

// Extractor turns parsed listing pages into candidate policy records using
// a site's selector profile, with a keyword-density fallback when the
// structured selectors find nothing.
type Extractor struct {
	keywords model.KeywordConfig
	now      func() time.Time
}

// NewExtractor creates an extractor with the given relevance vocabulary.
func NewExtractor(keywords model.KeywordConfig) *Extractor {
	return &Extractor{
		keywords: keywords,
		now:      time.Now,
	}
}

// Extract walks the site's container selectors in priority order, pulls the
// configured fields from each matched container, and validates the result.
// If no selector yields a single valid record, the generic keyword scan
// runs as a last resort. Output never exceeds maxPerPage records.
func (e *Extractor) Extract(doc *goquery.Document, site model.SiteProfile, sourceURL string) []model.PolicyRecord {
	now := e.now()
	records := e.extractStructured(doc, site, sourceURL, now)

	if len(records) == 0 {
		records = e.extractGeneric(doc, site, sourceURL, now)
	}

	if len(records) > maxPerPage {
		records = records[:maxPerPage]
	}
	return records
}

func (e *Extractor) extractStructured(doc *goquery.Document, site model.SiteProfile, sourceURL string, now time.Time) []model.PolicyRecord {
	containers := firstMatching(doc, site.Selectors.Container)
	if containers == nil {
		return nil
	}

	var records []model.PolicyRecord
	containers.Each(func(i int, container *goquery.Selection) {
		rec, ok := e.recordFromContainer(container, site, sourceURL, now, i)
		if ok {
			records = append(records, rec)
		}
	})
	return records
}

func (e *Extractor) recordFromContainer(container *goquery.Selection, site model.SiteProfile, sourceURL string, now time.Time, index int) (model.PolicyRecord, bool) {
	title := firstText(container, site.Selectors.Title, minTitleLen)
	desc := firstText(container, site.Selectors.Description, minDescLen)
	deadlineText := firstText(container, site.Selectors.Deadline, 1)

	// Selector misses fall back to the container's own text.
	if title == "" || desc == "" {
		lines := substantialLines(container.Text())
		if title == "" && len(lines) > 0 {
			title = lines[0]
		}
		if desc == "" {
			desc = truncate(normalizeSpace(container.Text()), fallbackDesc)
		}
	}

	title = truncate(title, titleCap)
	desc = truncate(desc, descCap)

	if len(title) <= minTitleLen || len(title) >= maxTitleLen || len(desc) <= minDescLen {
		return model.PolicyRecord{}, false
	}

	deadline, ok := ParseDeadline(deadlineText, now)
	if !ok {
		deadline = model.DefaultDeadline(now)
	}

	related, matched := e.MatchKeywords(title + " " + desc)

	return model.PolicyRecord{
		ID:             recordID(site.Name, now, index),
		Title:          title,
		Description:    desc,
		Ministry:       site.Name,
		Deadline:       deadline,
		SourceURL:      sourceURL,
		DiscoveredAt:   now,
		Status:         model.StatusActive,
		Type:           model.TypeHTML,
		ExtractedText:  truncate(normalizeSpace(container.Text()), descCap),
		WelfareRelated: related,
		Keywords:       matched,
	}, true
}

// PDFLinks collects the PDF anchors from matched containers on a
// PDF-listing page, resolved against the page URL. Order is preserved
// and duplicates removed.
func (e *Extractor) PDFLinks(doc *goquery.Document, site model.SiteProfile, pageURL string) []string {
	selectors := site.Selectors.PDFLink
	if len(selectors) == 0 {
		selectors = []string{"a[href$='.pdf']"}
	}

	var links []string
	seen := make(map[string]bool)
	for _, sel := range selectors {
		doc.Find(sel).Each(func(i int, a *goquery.Selection) {
			href, exists := a.Attr("href")
			if !exists {
				return
			}
			abs := absoluteURL(pageURL, href)
			if abs != "" && !seen[abs] {
				seen[abs] = true
				links = append(links, abs)
			}
		})
		if len(links) > 0 {
			break
		}
	}
	return links
}

// MatchKeywords runs the tiered vocabulary against text and returns the
// advisory relevance flag plus the matched keyword strings.
func (e *Extractor) MatchKeywords(text string) (bool, []string) {
	lower := strings.ToLower(text)
	var matched []string
	related := false

	for _, kw := range e.keywords.High {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
			related = true
		}
	}
	for _, kw := range e.keywords.Medium {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
			related = true
		}
	}
	for _, kw := range e.keywords.Low {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return related, matched
}

// firstMatching returns matches of the first selector that hits at least
// one element. Matches are never merged across selectors.
func firstMatching(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// firstText tries each selector in order and accepts the first candidate
// whose trimmed text meets the minimum length.
func firstText(container *goquery.Selection, selectors []string, minLen int) string {
	for _, sel := range selectors {
		text := normalizeSpace(container.Find(sel).First().Text())
		if len(text) >= minLen {
			return text
		}
	}
	return ""
}

func recordID(siteName string, now time.Time, index int) string {
	return fmt.Sprintf("%s-%d-%d", slug(siteName), now.Unix(), index)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	// Avoid splitting a multi-byte rune.
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return cut
}

// substantialLines splits text into trimmed lines of at least minTitleLen
// characters.
func substantialLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = normalizeSpace(line)
		if len(line) > minTitleLen {
			lines = append(lines, line)
		}
	}
	return lines
}

func absoluteURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
