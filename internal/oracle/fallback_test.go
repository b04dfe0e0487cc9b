package oracle

import (
	"strings"
	"testing"
	"time"

	"github.com/openpaws/policyradar/internal/model"
)

var scorerNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func testScorer() *FallbackScorer {
	s := NewFallbackScorer(model.KeywordConfig{
		High:   []string{"animal welfare", "cruelty"},
		Medium: []string{"livestock", "veterinary"},
		Low:    []string{"consultation", "notification", "draft rules", "amendment", "circular"},
	})
	s.now = func() time.Time { return scorerNow }
	return s
}

func recordWith(title, desc string) *model.PolicyRecord {
	return &model.PolicyRecord{
		ID:          "test-1",
		Title:       title,
		Description: desc,
		Ministry:    "Department of Animal Husbandry and Dairying",
		Deadline:    scorerNow.AddDate(0, 0, 30).Format(model.DeadlineLayout),
	}
}

func TestFallbackClassify_TierWeights(t *testing.T) {
	s := testScorer()

	cases := []struct {
		name  string
		title string
		desc  string
		score int
	}{
		{"single high", "Animal welfare rules", "x", 25},
		{"single medium", "Livestock census", "x", 15},
		{"single low", "Public consultation open", "x", 10},
		{"high plus medium", "Animal welfare and veterinary standards", "x", 40},
		{"two high", "Animal welfare and cruelty prevention", "x", 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := s.Classify(recordWith(tc.title, tc.desc), "")
			if a.Score != tc.score {
				t.Errorf("score = %d, want %d", a.Score, tc.score)
			}
			if !a.Fallback {
				t.Error("Fallback flag not set")
			}
		})
	}
}

func TestFallbackClassify_LowTierCapped(t *testing.T) {
	s := testScorer()
	// Five low-tier hits would be 50 uncapped; the cap holds them to 30.
	a := s.Classify(recordWith(
		"Consultation notification on draft rules",
		"Amendment circular issued for stakeholder comments",
	), "")
	if a.Score != lowTierCap {
		t.Errorf("score = %d, want low-tier cap %d", a.Score, lowTierCap)
	}
	if a.Relevant != (lowTierCap >= relevantThreshold) {
		t.Errorf("relevant = %v inconsistent with threshold", a.Relevant)
	}
}

func TestFallbackClassify_ScoreClampedAt100(t *testing.T) {
	s := testScorer()
	a := s.Classify(recordWith(
		"Animal welfare cruelty livestock veterinary consultation notification",
		"animal welfare cruelty draft rules amendment circular",
	), "")
	if a.Score != 100 {
		t.Errorf("score = %d, want clamp at 100", a.Score)
	}
}

func TestFallbackClassify_RelevanceThreshold(t *testing.T) {
	s := testScorer()

	if a := s.Classify(recordWith("Animal welfare draft", "x"), ""); !a.Relevant {
		t.Errorf("score %d should be relevant", a.Score)
	}
	if a := s.Classify(recordWith("Livestock update", "x"), ""); a.Relevant {
		t.Errorf("score %d should not be relevant", a.Score)
	}
	if a := s.Classify(recordWith("Budget allocation review", "nothing topical"), ""); a.Relevant || a.Score != 0 {
		t.Errorf("no matches: relevant=%v score=%d, want false/0", a.Relevant, a.Score)
	}
}

func TestFallbackClassify_ReasonPreserved(t *testing.T) {
	s := testScorer()
	a := s.Classify(recordWith("Animal welfare rules", "x"), "api timeout after 3 retries")
	if !strings.Contains(a.Narrative, "Oracle unavailable: api timeout after 3 retries") {
		t.Errorf("narrative missing failure reason: %q", a.Narrative)
	}

	a = s.Classify(recordWith("Animal welfare rules", "x"), "")
	if strings.Contains(a.Narrative, "Oracle unavailable") {
		t.Errorf("narrative mentions oracle with empty reason: %q", a.Narrative)
	}
}

func TestFallbackClassify_UrgencyFromDeadline(t *testing.T) {
	s := testScorer()
	cases := []struct {
		daysOut int
		want    model.Urgency
	}{
		{3, model.UrgencyHigh},
		{7, model.UrgencyHigh},
		{8, model.UrgencyMedium},
		{21, model.UrgencyMedium},
		{22, model.UrgencyLow},
		{60, model.UrgencyLow},
	}
	for _, tc := range cases {
		rec := recordWith("Animal welfare rules", "x")
		rec.Deadline = scorerNow.AddDate(0, 0, tc.daysOut).Format(model.DeadlineLayout)
		if a := s.Classify(rec, ""); a.Urgency != tc.want {
			t.Errorf("deadline +%dd: urgency = %s, want %s", tc.daysOut, a.Urgency, tc.want)
		}
	}
}

func TestFallbackDraft_FillsPlaceholders(t *testing.T) {
	rec := *recordWith("Draft Animal Transport Rules", "x")
	for _, tone := range Tones() {
		text := FallbackDraft(rec, tone)
		if !strings.Contains(text, rec.Title) {
			t.Errorf("%s draft missing title", tone)
		}
		if !strings.Contains(text, rec.Ministry) {
			t.Errorf("%s draft missing ministry", tone)
		}
		if !strings.Contains(text, rec.Deadline) {
			t.Errorf("%s draft missing deadline", tone)
		}
	}
}
