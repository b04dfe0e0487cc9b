package oracle

import (
	"fmt"
	"strings"
	"time"

	"github.com/openpaws/policyradar/internal/model"
)

// Fallback scoring weights. Low-tier matches contribute at most lowTierCap
// so procedural boilerplate ("consultation", "notification") cannot carry
// a score on its own.
const (
	highTierWeight   = 25
	mediumTierWeight = 15
	lowTierWeight    = 10
	lowTierCap       = 30

	relevantThreshold = 25
)

// FallbackScorer is the deterministic stand-in for the classification
// oracle: tiered keyword weighting over title+description+ministry.
type FallbackScorer struct {
	keywords model.KeywordConfig
	now      func() time.Time
}

// NewFallbackScorer creates a scorer with the given vocabulary.
func NewFallbackScorer(keywords model.KeywordConfig) *FallbackScorer {
	return &FallbackScorer{
		keywords: keywords,
		now:      time.Now,
	}
}

// Classify produces an analysis from keyword buckets alone. reason names
// why the oracle was not used and is preserved in the narrative for
// diagnosability; it may be empty when the oracle was never configured.
func (f *FallbackScorer) Classify(rec *model.PolicyRecord, reason string) *model.Analysis {
	text := strings.ToLower(rec.Title + " " + rec.Description + " " + rec.Ministry)

	score := 0
	var keyPoints []string

	for _, kw := range f.keywords.High {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += highTierWeight
			keyPoints = append(keyPoints, "mentions "+kw)
		}
	}
	for _, kw := range f.keywords.Medium {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += mediumTierWeight
			keyPoints = append(keyPoints, "mentions "+kw)
		}
	}

	lowScore := 0
	for _, kw := range f.keywords.Low {
		if strings.Contains(text, strings.ToLower(kw)) {
			lowScore += lowTierWeight
			keyPoints = append(keyPoints, "procedural signal: "+kw)
		}
	}
	if lowScore > lowTierCap {
		lowScore = lowTierCap
	}
	score += lowScore

	if score > 100 {
		score = 100
	}

	narrative := fmt.Sprintf("Keyword-based assessment scored this document %d/100 against the animal welfare vocabulary.", score)
	if reason != "" {
		narrative = fmt.Sprintf("%s Oracle unavailable: %s.", narrative, reason)
	}

	return &model.Analysis{
		Relevant:   score >= relevantThreshold,
		Score:      score,
		Urgency:    urgencyFor(rec, f.now()),
		KeyPoints:  keyPoints,
		Aspects:    aspectsFor(text),
		Narrative:  narrative,
		Fallback:   true,
		AnalyzedAt: f.now(),
	}
}

func urgencyFor(rec *model.PolicyRecord, now time.Time) model.Urgency {
	days := rec.DaysToDeadline(now)
	switch {
	case days <= 7:
		return model.UrgencyHigh
	case days <= 21:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}

func aspectsFor(text string) []string {
	var aspects []string
	buckets := []struct {
		label string
		terms []string
	}{
		{"companion animals", []string{"dog", "cat", "pet", "stray"}},
		{"farmed animals", []string{"livestock", "cattle", "dairy", "poultry", "slaughter"}},
		{"wildlife", []string{"wildlife", "forest", "zoo", "birds"}},
		{"regulatory process", []string{"consultation", "draft rules", "amendment", "comments"}},
	}
	for _, b := range buckets {
		for _, term := range b.terms {
			if strings.Contains(text, term) {
				aspects = append(aspects, b.label)
				break
			}
		}
	}
	return aspects
}

// draftTemplates are the canned per-tone responses used when the draft
// oracle is unreachable. Placeholders: title, ministry, deadline.
var draftTemplates = map[Tone]string{
	ToneLegal:      "To the %[2]s,\n\nRe: %[1]s\n\nWe write to formally respond to the above consultation before the stated deadline of %[3]s. The proposal must be read consistently with the Prevention of Cruelty to Animals Act, 1960 and the constitutional duty of compassion under Article 51A(g). We request that the final instrument expressly preserve existing welfare safeguards and provide for independent enforcement review.\n\nRespectfully submitted.",
	ToneEmotional:  "To the %[2]s,\n\nRe: %[1]s\n\nBehind every provision of this proposal are living, feeling animals whose wellbeing depends on the choices made here. We urge you, before the %[3]s deadline, to put their capacity to suffer at the center of the final decision and to strengthen, not weaken, the protections they rely on.\n\nWith hope and urgency.",
	ToneDataBacked: "To the %[2]s,\n\nRe: %[1]s\n\nAvailable evidence on animal welfare outcomes, enforcement rates, and compliance costs should anchor this decision. We respond before the %[3]s deadline to request that the ministry publish the data underlying the proposal and commission an independent welfare impact assessment prior to finalization.\n\nSincerely.",
	ToneFinancial:  "To the %[2]s,\n\nRe: %[1]s\n\nWe submit, ahead of the %[3]s deadline, that the fiscal analysis of this proposal should account for the long-run costs of inadequate welfare standards: disease control expenditure, enforcement burden, and lost export access to welfare-conscious markets. Stronger standards are the economical choice.\n\nSincerely.",
	ToneBusiness:   "To the %[2]s,\n\nRe: %[1]s\n\nResponsible operators in this sector support clear, uniformly enforced welfare standards: they level the competitive field and protect market reputation. We ask, before the %[3]s deadline, that the final rules reward compliant businesses rather than undercut them.\n\nSincerely.",
	ToneLivelihood: "To the %[2]s,\n\nRe: %[1]s\n\nMillions of rural livelihoods depend on healthy, well-treated animals. Ahead of the %[3]s deadline we ask that the final policy pair welfare requirements with support for small farmers and animal-dependent workers, so that compliance strengthens rather than threatens their income.\n\nSincerely.",
}

// FallbackDraft returns the canned response for a tone.
func FallbackDraft(rec model.PolicyRecord, tone Tone) string {
	tmpl, ok := draftTemplates[tone]
	if !ok {
		tmpl = draftTemplates[ToneLegal]
	}
	return fmt.Sprintf(tmpl, rec.Title, rec.Ministry, rec.Deadline)
}
