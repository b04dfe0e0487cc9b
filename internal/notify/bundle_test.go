package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/openpaws/policyradar/internal/model"
)

func analyzedRecord() model.PolicyRecord {
	return model.PolicyRecord{
		ID:        "html-rec-1",
		Title:     "Draft Animal Transport Rules",
		Ministry:  "Ministry of Fisheries, Animal Husbandry and Dairying",
		Deadline:  "2026-10-15",
		SourceURL: "https://dahd.gov.in/consultations/transport-rules",
		Analysis: &model.Analysis{
			Relevant:  true,
			Score:     75,
			Urgency:   model.UrgencyMedium,
			KeyPoints: []string{"mentions animal welfare", "mentions livestock"},
			Narrative: "Transport rules with direct welfare impact.",
			Drafts: map[string]string{
				"legal":     "legal draft text",
				"emotional": "emotional draft text",
			},
			AnalyzedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuildBundle_RequiresAnalysis(t *testing.T) {
	rec := analyzedRecord()
	rec.Analysis = nil
	if _, err := BuildBundle(rec); err == nil {
		t.Error("unanalyzed record accepted")
	}
}

func TestBuildBundle_CapsAndFiltersDrafts(t *testing.T) {
	rec := analyzedRecord()
	rec.Analysis.Drafts = map[string]string{
		"legal":       "a",
		"emotional":   "b",
		"data_backed": "c",
		"financial":   "d",
		"business":    "", // empty drafts are dropped
	}

	// Repeated builds must keep the same three drafts: the cap selects by
	// canonical tone order, not map iteration order.
	for i := 0; i < 10; i++ {
		b, err := BuildBundle(rec)
		if err != nil {
			t.Fatalf("BuildBundle: %v", err)
		}
		if len(b.Drafts) != MaxBundleDrafts {
			t.Fatalf("bundle carries %d drafts, cap is %d", len(b.Drafts), MaxBundleDrafts)
		}
		for _, tone := range []string{"legal", "emotional", "data_backed"} {
			if _, ok := b.Drafts[tone]; !ok {
				t.Errorf("draft %s missing from bundle", tone)
			}
		}
		if _, ok := b.Drafts["financial"]; ok {
			t.Error("financial draft should lose to earlier canonical tones")
		}
		if _, ok := b.Drafts["business"]; ok {
			t.Error("empty draft included")
		}
	}
}

func TestBody_DraftOrderStable(t *testing.T) {
	rec := analyzedRecord()
	rec.Analysis.Drafts = map[string]string{
		"emotional": "emotional text",
		"legal":     "legal text",
	}
	b, err := BuildBundle(rec)
	if err != nil {
		t.Fatalf("BuildBundle: %v", err)
	}

	body := b.Body()
	legal := strings.Index(body, "[legal]")
	emotional := strings.Index(body, "[emotional]")
	if legal < 0 || emotional < 0 {
		t.Fatalf("drafts missing from body:\n%s", body)
	}
	if legal > emotional {
		t.Error("drafts not rendered in canonical tone order")
	}

	for i := 0; i < 10; i++ {
		if b.Body() != body {
			t.Fatal("body rendering not stable across calls")
		}
	}
}

func TestSubject_UrgencyPrefix(t *testing.T) {
	rec := analyzedRecord()
	b, err := BuildBundle(rec)
	if err != nil {
		t.Fatalf("BuildBundle: %v", err)
	}
	if s := b.Subject(); strings.HasPrefix(s, "URGENT") {
		t.Errorf("medium urgency got urgent prefix: %q", s)
	}

	rec.Analysis.Urgency = model.UrgencyHigh
	b, err = BuildBundle(rec)
	if err != nil {
		t.Fatalf("BuildBundle: %v", err)
	}
	s := b.Subject()
	if !strings.HasPrefix(s, "URGENT policy alert") {
		t.Errorf("high urgency subject = %q", s)
	}
	if !strings.Contains(s, rec.Title) || !strings.Contains(s, rec.Deadline) {
		t.Errorf("subject missing title or deadline: %q", s)
	}
}

func TestBody_Contents(t *testing.T) {
	b, err := BuildBundle(analyzedRecord())
	if err != nil {
		t.Fatalf("BuildBundle: %v", err)
	}
	body := b.Body()

	for _, want := range []string{
		"Draft Animal Transport Rules",
		"Ministry of Fisheries, Animal Husbandry and Dairying",
		"Deadline: 2026-10-15",
		"75/100",
		"https://dahd.gov.in/consultations/transport-rules",
		"Transport rules with direct welfare impact.",
		"mentions livestock",
		"[legal]",
		"legal draft text",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestBody_NoDraftsOmitsSection(t *testing.T) {
	rec := analyzedRecord()
	rec.Analysis.Drafts = nil
	b, err := BuildBundle(rec)
	if err != nil {
		t.Fatalf("BuildBundle: %v", err)
	}
	if strings.Contains(b.Body(), "Draft responses") {
		t.Error("draft section rendered with no drafts")
	}
}
