// Package notify assembles and delivers email notifications for analyzed
// policy records. Assembly is the typed contract; delivery is best-effort.
package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openpaws/policyradar/internal/model"
	"github.com/openpaws/policyradar/internal/oracle"
)

// MaxBundleDrafts caps the draft texts included in one notification.
const MaxBundleDrafts = 3

// Bundle is a fully formed notification: the record, its analysis, and up
// to three draft responses keyed by tone.
type Bundle struct {
	Record   model.PolicyRecord
	Analysis model.Analysis
	Drafts   map[string]string
}

// BuildBundle assembles a bundle from an analyzed record. Records without
// an attached analysis cannot be notified.
func BuildBundle(rec model.PolicyRecord) (*Bundle, error) {
	if rec.Analysis == nil {
		return nil, fmt.Errorf("build bundle: record %s has no analysis", rec.ID)
	}

	// Canonical tone order first, then any remaining keys sorted, so the
	// surviving drafts do not depend on map iteration order.
	drafts := make(map[string]string)
	for _, tone := range orderedTones(rec.Analysis.Drafts) {
		if len(drafts) >= MaxBundleDrafts {
			break
		}
		if text := rec.Analysis.Drafts[tone]; text != "" {
			drafts[tone] = text
		}
	}

	return &Bundle{
		Record:   rec,
		Analysis: *rec.Analysis,
		Drafts:   drafts,
	}, nil
}

func orderedTones(drafts map[string]string) []string {
	var ordered []string
	seen := make(map[string]bool)
	for _, tone := range oracle.Tones() {
		if _, ok := drafts[string(tone)]; ok {
			ordered = append(ordered, string(tone))
			seen[string(tone)] = true
		}
	}

	var rest []string
	for tone := range drafts {
		if !seen[tone] {
			rest = append(rest, tone)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// Subject renders the notification subject line.
func (b *Bundle) Subject() string {
	prefix := "Policy alert"
	if b.Analysis.Urgency == model.UrgencyHigh {
		prefix = "URGENT policy alert"
	}
	return fmt.Sprintf("%s: %s (deadline %s)", prefix, b.Record.Title, b.Record.Deadline)
}

// Body renders the plain-text notification body.
func (b *Bundle) Body() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n%s\n\n", b.Record.Title, b.Record.Ministry)
	fmt.Fprintf(&sb, "Deadline: %s\n", b.Record.Deadline)
	fmt.Fprintf(&sb, "Relevance score: %d/100 (relevant: %v)\n", b.Analysis.Score, b.Analysis.Relevant)
	fmt.Fprintf(&sb, "Source: %s\n\n", b.Record.SourceURL)

	fmt.Fprintf(&sb, "%s\n", b.Analysis.Narrative)

	if len(b.Analysis.KeyPoints) > 0 {
		sb.WriteString("\nKey points:\n")
		for _, kp := range b.Analysis.KeyPoints {
			fmt.Fprintf(&sb, "  - %s\n", kp)
		}
	}

	if len(b.Drafts) > 0 {
		sb.WriteString("\n--- Draft responses ---\n")
		for _, tone := range orderedTones(b.Drafts) {
			fmt.Fprintf(&sb, "\n[%s]\n%s\n", tone, b.Drafts[tone])
		}
	}

	return sb.String()
}
