// Package pipeline drives one sweep: fetch each watched site, extract
// candidate policy records, dedup against the store, score relevance, and
// hand relevant records to the notifier. Sites are processed strictly
// sequentially; one site's or one document's failure never aborts the rest
// of the batch.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/openpaws/policyradar/internal/cache"
	"github.com/openpaws/policyradar/internal/extract"
	"github.com/openpaws/policyradar/internal/fetch"
	"github.com/openpaws/policyradar/internal/model"
	"github.com/openpaws/policyradar/internal/notify"
	"github.com/openpaws/policyradar/internal/oracle"
	"github.com/openpaws/policyradar/internal/pdfdoc"
	"github.com/openpaws/policyradar/internal/sanitize"
	"github.com/openpaws/policyradar/internal/store"
)

// sleepFunc paces PDF and analysis calls (injectable for tests).
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// draftTones are the tones generated for each relevant record, capped at
// the notification bundle limit.
var draftTones = []oracle.Tone{oracle.ToneLegal, oracle.ToneEmotional, oracle.ToneDataBacked}

// Pipeline owns the sweep collaborators.
type Pipeline struct {
	fetcher   *fetch.Fetcher
	extractor *extract.Extractor
	resolver  *pdfdoc.Resolver
	policies  *store.Store
	provider  oracle.Provider // nil when the oracle is disabled
	fallback  *oracle.FallbackScorer
	drafts    *oracle.DraftQueue
	sender    *notify.EmailSender // nil when notifications are disabled
	cfg       *model.Config
}

// New wires a pipeline from configuration. Oracle and notifier setup
// failures degrade with a warning instead of failing construction.
func New(cfg *model.Config) *Pipeline {
	pages := cache.NewPageCache(10*time.Minute, 30*time.Minute)
	fetcher := fetch.NewFetcher(cfg.HTTP, pages)

	provider, err := oracle.NewProvider(oracle.ConfigFromModel(cfg.LLM))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize oracle provider: %v\n", err)
		provider = nil
	}
	if provider != nil {
		probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if !provider.IsAvailable(probeCtx) {
			fmt.Fprintf(os.Stderr, "Warning: oracle provider %s unreachable, using deterministic fallback\n", provider.Name())
			provider = nil
		}
		cancel()
	}

	var sender *notify.EmailSender
	if cfg.Notify.Enabled {
		sender, err = notify.NewEmailSender(cfg.Notify)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: notifications disabled: %v\n", err)
		}
	}

	var describer pdfdoc.Describer
	if provider != nil {
		describer = provider
	}

	return &Pipeline{
		fetcher:   fetcher,
		extractor: extract.NewExtractor(cfg.Keywords),
		resolver:  pdfdoc.NewResolver(describer, fetcher, cfg.Keywords),
		policies:  store.New(cfg.Store.Path),
		provider:  provider,
		fallback:  oracle.NewFallbackScorer(cfg.Keywords),
		drafts:    oracle.NewDraftQueue(provider, cfg.Throttle.DraftInterval),
		sender:    sender,
		cfg:       cfg,
	}
}

// Close releases pipeline resources.
func (p *Pipeline) Close() {
	p.drafts.Close()
}

// Store exposes the policy store for CLI commands.
func (p *Pipeline) Store() *store.Store {
	return p.policies
}

// RunReport summarizes a sweep. Partial success is the norm: counters are
// reported even when some sites failed.
type RunReport struct {
	Sites       int      `json:"sites"`
	FailedSites int      `json:"failed_sites"`
	Discovered  int      `json:"discovered"`
	Added       int      `json:"added"`
	Analyzed    int      `json:"analyzed"`
	Relevant    int      `json:"relevant"`
	Notified    int      `json:"notified"`
	Errors      []string `json:"errors,omitempty"`
}

// Sweep runs one full pass over all configured sites.
func (p *Pipeline) Sweep(ctx context.Context) (*RunReport, error) {
	report := &RunReport{Sites: len(p.cfg.Sites)}

	existing, err := p.policies.Load()
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	known := knownDocuments(existing)

	var added []model.PolicyRecord
	for _, site := range p.cfg.Sites {
		records, err := p.sweepSite(ctx, site)
		if err != nil {
			report.FailedSites++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", site.Name, err))
			continue
		}

		report.Discovered += len(records)
		for _, rec := range records {
			// Ingestion-time dedup: a re-scraped title+ministry pair
			// is already known even if its URL or id changed.
			key := documentKey(rec.Title, rec.Ministry)
			if known[key] {
				continue
			}
			if err := p.policies.AddOrUpdate(rec); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("store %s: %v", rec.ID, err))
				continue
			}
			known[key] = true
			added = append(added, rec)
			report.Added++
		}
	}

	p.analyzeBatch(ctx, added, report)

	return report, nil
}

// sweepSite tries each URL variant in order and stops at the first one
// that yields usable extracted content. Results are never aggregated
// across variants.
func (p *Pipeline) sweepSite(ctx context.Context, site model.SiteProfile) ([]model.PolicyRecord, error) {
	var lastErr error
	for _, pageURL := range site.URLVariants() {
		html, err := p.fetcher.FetchHTML(ctx, pageURL)
		if err != nil {
			lastErr = err
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			lastErr = fmt.Errorf("parse %s: %w", pageURL, err)
			continue
		}

		var records []model.PolicyRecord
		if site.PDFListing {
			records = p.resolvePDFs(ctx, doc, site, pageURL)
		} else {
			records = p.extractor.Extract(doc, site, pageURL)
		}

		if len(records) > 0 {
			return records, nil
		}
		lastErr = fmt.Errorf("no extractable content at %s", pageURL)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no URL variants configured")
	}
	return nil, lastErr
}

// resolvePDFs turns the PDF links on a listing page into records. Each
// resolution failure skips that single document; a throttle delay runs
// between consecutive resolutions to respect rate limits.
func (p *Pipeline) resolvePDFs(ctx context.Context, doc *goquery.Document, site model.SiteProfile, pageURL string) []model.PolicyRecord {
	links := p.extractor.PDFLinks(doc, site, pageURL)
	var records []model.PolicyRecord

	for i, link := range links {
		if len(records) >= 10 {
			break
		}
		if i > 0 && p.cfg.Throttle.PDFDelay > 0 {
			if err := sleepFunc(ctx, p.cfg.Throttle.PDFDelay); err != nil {
				break
			}
		}

		rec, err := p.resolver.Resolve(ctx, link, pageURL)
		if err != nil {
			p.warnf("skipping pdf %s: %v", link, err)
			continue
		}
		rec.Ministry = preferKnown(rec.Ministry, site.Name)
		records = append(records, *rec)
	}

	return records
}

// analyzeBatch scores freshly added records and notifies on the relevant
// ones. Garbled descriptions are repaired before scoring.
func (p *Pipeline) analyzeBatch(ctx context.Context, records []model.PolicyRecord, report *RunReport) {
	for i, rec := range records {
		if i > 0 && p.provider != nil && p.cfg.Throttle.AnalysisDelay > 0 {
			if err := sleepFunc(ctx, p.cfg.Throttle.AnalysisDelay); err != nil {
				return
			}
		}

		if sanitize.IsGarbled(rec.Description) {
			rec.Description = sanitize.Regenerate(&rec)
			if err := p.policies.AddOrUpdate(rec); err != nil {
				p.warnf("persist repaired description %s: %v", rec.ID, err)
			}
		}

		analysis := p.analyze(ctx, &rec)
		if err := p.policies.UpdateAnalysis(rec.ID, analysis); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("analysis %s: %v", rec.ID, err))
			continue
		}
		report.Analyzed++

		if !analysis.Relevant {
			continue
		}
		report.Relevant++

		rec.Analysis = analysis
		if p.notifyRecord(ctx, rec) {
			report.Notified++
		}
	}
}

// analyze asks the oracle for a classification, falling back to the
// deterministic keyword scorer. The failure reason is preserved in the
// fallback narrative.
func (p *Pipeline) analyze(ctx context.Context, rec *model.PolicyRecord) *model.Analysis {
	if p.provider == nil {
		return p.fallback.Classify(rec, "")
	}

	c, err := p.provider.Classify(ctx, rec.Title, rec.Description, rec.Ministry)
	if err != nil {
		return p.fallback.Classify(rec, err.Error())
	}

	return &model.Analysis{
		Relevant:   c.Relevant,
		Score:      c.Score,
		Urgency:    c.Urgency,
		KeyPoints:  c.KeyPoints,
		Aspects:    c.Aspects,
		Narrative:  c.Narrative,
		AnalyzedAt: time.Now(),
	}
}

// notifyRecord generates drafts through the serialized queue, attaches
// them, and sends the bundle. Returns true when a notification went out.
func (p *Pipeline) notifyRecord(ctx context.Context, rec model.PolicyRecord) bool {
	drafts := make(map[string]string, len(draftTones))
	for _, tone := range draftTones {
		text, err := p.drafts.Generate(ctx, rec, string(tone))
		if err != nil {
			p.warnf("draft %s for %s: %v", tone, rec.ID, err)
			continue
		}
		drafts[string(tone)] = text
	}

	rec.Analysis.Drafts = drafts
	if err := p.policies.UpdateAnalysis(rec.ID, rec.Analysis); err != nil {
		p.warnf("persist drafts %s: %v", rec.ID, err)
	}

	if p.sender == nil {
		return false
	}

	bundle, err := notify.BuildBundle(rec)
	if err != nil {
		p.warnf("bundle %s: %v", rec.ID, err)
		return false
	}
	if err := p.sender.Send(ctx, bundle); err != nil {
		p.warnf("notify %s: %v", rec.ID, err)
		return false
	}
	return true
}

// RepairGarbled walks the stored collection and regenerates descriptions
// contaminated by binary data. Returns the number of repaired records.
func (p *Pipeline) RepairGarbled() (int, error) {
	records, err := p.policies.Load()
	if err != nil {
		return 0, err
	}

	repaired := 0
	for i := range records {
		if !sanitize.IsGarbled(records[i].Description) {
			continue
		}
		records[i].Description = sanitize.Regenerate(&records[i])
		repaired++
	}

	if repaired == 0 {
		return 0, nil
	}
	if err := p.policies.Save(records); err != nil {
		return 0, err
	}
	return repaired, nil
}

func (p *Pipeline) warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func knownDocuments(records []model.PolicyRecord) map[string]bool {
	known := make(map[string]bool, len(records))
	for i := range records {
		known[documentKey(records[i].Title, records[i].Ministry)] = true
	}
	return known
}

func documentKey(title, ministry string) string {
	return title + "\x00" + ministry
}

// preferKnown keeps the domain-inferred ministry unless it is the unknown
// placeholder, in which case the site's display name is used.
func preferKnown(inferred, siteName string) string {
	if inferred == model.UnknownMinistry && siteName != "" {
		return siteName
	}
	return inferred
}
