package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/openpaws/policyradar/internal/model"
)

// Generic extraction bounds. Invoked only when structured extraction
// yields zero valid records for a page.
const (
	genericMinText   = 50
	genericMaxText   = 1000
	genericMinHits   = 2
	genericMaxRecord = 5
)

// extractGeneric scans text-bearing elements for keyword density. Elements
// whose text falls in the accepted length band and matches at least two
// vocabulary entries become records with a default deadline.
func (e *Extractor) extractGeneric(doc *goquery.Document, site model.SiteProfile, sourceURL string, now time.Time) []model.PolicyRecord {
	var records []model.PolicyRecord
	seenTitles := make(map[string]bool)

	doc.Find("p, div, article, section").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := normalizeSpace(sel.Text())
		if len(text) < genericMinText || len(text) > genericMaxText {
			return true
		}

		hits := countKeywordHits(text, e.keywords.Generic)
		if len(hits) < genericMinHits {
			return true
		}

		title := text
		if lines := substantialLines(sel.Text()); len(lines) > 0 {
			title = lines[0]
		}
		title = truncate(title, titleCap)
		if len(title) <= minTitleLen {
			return true
		}

		// Nested elements repeat their parents' text; one record per title.
		if seenTitles[title] {
			return true
		}
		seenTitles[title] = true

		related, matched := e.MatchKeywords(text)

		records = append(records, model.PolicyRecord{
			ID:             recordID(site.Name, now, len(records)),
			Title:          title,
			Description:    truncate(text, fallbackDesc),
			Ministry:       site.Name,
			Deadline:       model.DefaultDeadline(now),
			SourceURL:      sourceURL,
			DiscoveredAt:   now,
			Status:         model.StatusActive,
			Type:           model.TypeHTML,
			ExtractedText:  truncate(text, descCap),
			WelfareRelated: related,
			Keywords:       matched,
		})

		return len(records) < genericMaxRecord
	})

	return records
}

// countKeywordHits returns the distinct vocabulary entries found in text.
func countKeywordHits(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, kw := range vocabulary {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits = append(hits, kw)
		}
	}
	return hits
}
