package sanitize

import (
	"strings"
	"testing"

	"github.com/openpaws/policyradar/internal/model"
)

func TestIsGarbled_CleanASCII(t *testing.T) {
	cases := []string{
		"",
		"A perfectly ordinary description of a government circular.",
		"Numbers 123, punctuation!? And (brackets) are all fine.",
		"Text with\nnewlines and\ttabs is still clean.",
		"Guidelines referencing the %PDF-1.4 format for electronic submission of comments.",
	}
	for _, text := range cases {
		if IsGarbled(text) {
			t.Errorf("IsGarbled(%q) = true, want false", text)
		}
	}
}

func TestIsGarbled_NulBytes(t *testing.T) {
	// First 10% of characters are NUL: well over the ratio threshold.
	text := strings.Repeat("\x00", 10) + strings.Repeat("a", 90)
	if !IsGarbled(text) {
		t.Error("expected NUL-heavy text to be flagged")
	}
}

func TestIsGarbled_RatioThreshold(t *testing.T) {
	// 4 flagged bytes in 100 is under the 5% threshold.
	under := strings.Repeat("\x01", 4) + strings.Repeat("a", 96)
	if IsGarbled(under) {
		t.Error("4% flagged should not trip the ratio threshold")
	}

	over := strings.Repeat("\x01", 6) + strings.Repeat("a", 94)
	if !IsGarbled(over) {
		t.Error("6% flagged should trip the ratio threshold")
	}
}

func TestIsGarbled_MarkersAlwaysFlag(t *testing.T) {
	// A single corruption marker flags the text regardless of ratio.
	text := strings.Repeat("clean text ", 100) + "�"
	if !IsGarbled(text) {
		t.Error("replacement character should always flag")
	}

	text = strings.Repeat("clean text ", 100) + "þÿ"
	if !IsGarbled(text) {
		t.Error("mis-decoded BOM should always flag")
	}
}

func TestIsGarbled_LeakedHeaderTripsRatio(t *testing.T) {
	// A real leaked header arrives with its surrounding binary stream;
	// the ratio catches it without any ASCII marker.
	leaked := "%PDF-1.4 \x00\x01\x02\x03\x04\x05 obj stream endstream"
	if !IsGarbled(leaked) {
		t.Error("binary-laden leaked header should be flagged")
	}
}

func TestRegenerate_CuratedPhrase(t *testing.T) {
	rec := &model.PolicyRecord{
		Title:     "Observance of Animal Welfare Fortnight 2026",
		Ministry:  "Animal Welfare Board of India",
		SourceURL: "https://awbi.gov.in/circulars/fortnight.pdf",
		Deadline:  "2026-03-15",
	}

	desc := Regenerate(rec)
	if !strings.Contains(desc, "Animal Welfare Fortnight") {
		t.Errorf("expected curated fortnight text, got %q", desc)
	}
}

func TestRegenerate_GenericFallback(t *testing.T) {
	rec := &model.PolicyRecord{
		Title:     "Circular on cattle shelter funding norms",
		Ministry:  "Department of Animal Husbandry and Dairying",
		SourceURL: "https://dahd.gov.in/circulars/shelter.pdf",
		Deadline:  "2026-03-15",
	}

	desc := Regenerate(rec)
	if !strings.Contains(desc, "Circular") {
		t.Errorf("expected doc type from title, got %q", desc)
	}
	if !strings.Contains(desc, "Department of Animal Husbandry and Dairying") {
		t.Errorf("expected organization from source domain, got %q", desc)
	}
	if !strings.Contains(desc, "animal welfare") {
		t.Errorf("expected topic suffix, got %q", desc)
	}
	if !strings.Contains(desc, "2026-03-15") {
		t.Errorf("expected deadline in description, got %q", desc)
	}
	if IsGarbled(desc) {
		t.Error("regenerated description must be clean")
	}
}

func TestRegenerate_UnknownDomainUsesRecordMinistry(t *testing.T) {
	rec := &model.PolicyRecord{
		Title:     "Notification regarding import of feed additives",
		Ministry:  "Directorate of Trade",
		SourceURL: "https://example.org/feed.pdf",
		Deadline:  "2026-05-01",
	}

	desc := Regenerate(rec)
	if !strings.Contains(desc, "Directorate of Trade") {
		t.Errorf("expected record ministry for unknown domain, got %q", desc)
	}
	if !strings.Contains(desc, "import/export") {
		t.Errorf("expected import/export topic suffix, got %q", desc)
	}
}
