// Package pdfdoc turns bare PDF URLs into best-effort policy records.
// Full-text PDF extraction is unreliable on government servers, so the
// resolver leans on the URL itself: filename for the title, domain for the
// ministry, and a shallow keyword pre-filter for relevance.
package pdfdoc

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/openpaws/policyradar/internal/model"
)

const (
	// Oracle descriptions shorter than this are implausible and rejected
	// in favor of the deterministic fallback.
	minOracleDesc = 50

	genericTitle = "Government Circular/Notification"

	snippetCap = 1000
)

// Describer produces a human-readable summary for a document URL. The
// oracle client satisfies this; it may be nil or failing at any time.
type Describer interface {
	Describe(ctx context.Context, documentURL string) (string, error)
}

// BinaryFetcher retrieves a PDF body. Optional; enables text snippets.
type BinaryFetcher interface {
	FetchPDF(ctx context.Context, url string) ([]byte, error)
}

// Resolver derives policy records from PDF URLs.
type Resolver struct {
	describer Describer
	fetcher   BinaryFetcher
	keywords  model.KeywordConfig
	now       func() time.Time
}

// NewResolver creates a resolver. describer and fetcher may be nil; the
// resolver degrades to pure URL derivation.
func NewResolver(describer Describer, fetcher BinaryFetcher, keywords model.KeywordConfig) *Resolver {
	return &Resolver{
		describer: describer,
		fetcher:   fetcher,
		keywords:  keywords,
		now:       time.Now,
	}
}

// Resolve builds a record from a PDF URL. Oracle or download failures
// never propagate; the returned record always carries a usable
// description. An error is returned only when the URL itself cannot be
// interpreted.
func (r *Resolver) Resolve(ctx context.Context, pdfURL, sourcePageURL string) (*model.PolicyRecord, error) {
	parsed, err := url.Parse(pdfURL)
	if err != nil {
		return nil, fmt.Errorf("resolve pdf %s: %w", pdfURL, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("resolve pdf %s: not an absolute URL", pdfURL)
	}

	now := r.now()
	title := titleFromURL(parsed)
	ministry := model.MinistryForURL(pdfURL)
	related, matched := r.urlKeywords(pdfURL)

	rec := &model.PolicyRecord{
		ID:             "pdf-" + urlHash(pdfURL),
		Title:          title,
		Ministry:       ministry,
		Deadline:       model.DefaultDeadline(now),
		SourceURL:      pdfURL,
		SourcePageURL:  sourcePageURL,
		DiscoveredAt:   now,
		Status:         model.StatusActive,
		Type:           model.TypePDF,
		WelfareRelated: related,
		Keywords:       matched,
	}

	if r.fetcher != nil {
		if data, err := r.fetcher.FetchPDF(ctx, pdfURL); err == nil {
			rec.ExtractedText = textSnippet(data)
		}
	}

	rec.Description = r.describe(ctx, pdfURL, ministry)
	return rec, nil
}

// describe asks the oracle for a summary and falls back to deterministic
// text when the oracle is missing, failing, or implausibly terse.
func (r *Resolver) describe(ctx context.Context, pdfURL, ministry string) string {
	if r.describer != nil {
		desc, err := r.describer.Describe(ctx, pdfURL)
		if err == nil {
			desc = strings.TrimSpace(desc)
			if len(desc) >= minOracleDesc {
				return desc
			}
		}
	}
	return FallbackDescription(ministry)
}

// FallbackDescription is the deterministic stand-in used when no oracle
// summary is available for a PDF.
func FallbackDescription(ministry string) string {
	return fmt.Sprintf("PDF document published by %s. The document could not be processed automatically; please refer to the original file at the source URL for full details and submission instructions.", ministry)
}

// titleFromURL derives a provisional title from the filename: extension
// stripped, separators replaced with spaces, words title-cased. Short
// results give way to a generic label.
func titleFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, path.Ext(base))

	replacer := strings.NewReplacer("_", " ", "-", " ", "%20", " ", "+", " ", ".", " ")
	base = replacer.Replace(base)
	base = strings.Join(strings.Fields(base), " ")

	title := titleCase(base)
	if len(title) < 10 {
		return genericTitle
	}
	return title
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// urlKeywords is the cheap URL-only relevance pre-filter.
func (r *Resolver) urlKeywords(pdfURL string) (bool, []string) {
	// URL text uses separators instead of spaces, so multi-word
	// keywords are matched word-by-word.
	normalized := strings.ToLower(pdfURL)
	normalized = strings.NewReplacer("_", " ", "-", " ", "%20", " ", "/", " ", ".", " ").Replace(normalized)

	var matched []string
	related := false
	match := func(vocab []string, flag bool) {
		for _, kw := range vocab {
			if strings.Contains(normalized, strings.ToLower(kw)) {
				matched = append(matched, kw)
				if flag {
					related = true
				}
			}
		}
	}
	match(r.keywords.High, true)
	match(r.keywords.Medium, true)
	match(r.keywords.Low, false)

	return related, matched
}

func urlHash(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:8])
}

// textSnippet extracts a bounded plain-text snippet from PDF bytes.
// The pdf library panics on some malformed files, so recovery is required.
func textSnippet(data []byte) (snippet string) {
	defer func() {
		if recover() != nil {
			snippet = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}

	var buf strings.Builder
	if _, err := io.Copy(&buf, io.LimitReader(plain, snippetCap*4)); err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(buf.String()), " ")
	if len(text) > snippetCap {
		text = text[:snippetCap]
	}
	return text
}
