// Package sanitize detects descriptions corrupted by binary data leaking
// through text extraction and rebuilds them from structural cues already
// on the record. Regeneration is fully deterministic: no oracle calls.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/openpaws/policyradar/internal/model"
)

// garbledRatio is the flagged-character share above which text is treated
// as binary-contaminated. Tuned against PDFs served with wrong encodings.
const garbledRatio = 0.05

// corruptionMarkers are non-ASCII glyphs produced by mis-decoded binary.
// Any occurrence flags the text regardless of the overall ratio. Printable
// ASCII sequences never belong here: clean text must be able to mention
// strings like "%PDF-" without being flagged, and a genuinely leaked PDF
// header brings enough binary bytes to trip the ratio on its own.
var corruptionMarkers = []string{
	"�", // replacement character
	"þÿ", // UTF-16 BE BOM read as Latin-1
	"ÿþ", // UTF-16 LE BOM read as Latin-1
	"Ã¿", // 0xFF double-decoded
}

// IsGarbled reports whether text appears contaminated by binary data.
// Plain printable ASCII is never flagged.
func IsGarbled(text string) bool {
	if text == "" {
		return false
	}

	for _, marker := range corruptionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}

	flagged := 0
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case b == '\n' || b == '\r' || b == '\t':
			// Ordinary whitespace.
		case b < 0x20 || b == 0x7F:
			flagged++
		case b >= 0x80:
			flagged++
		}
	}

	return float64(flagged)/float64(len(text)) > garbledRatio
}

// curatedDescriptions maps known title phrase combinations to hand-written
// replacement text. This is a patch over upstream extraction failures, not
// a classifier; keep it a small enumerated table. New topics should go
// through the oracle description path instead.
var curatedDescriptions = []struct {
	phrases []string
	text    string
}{
	{
		phrases: []string{"animal welfare", "fortnight"},
		text:    "Circular regarding the observance of Animal Welfare Fortnight, inviting organizations and citizens to participate in awareness activities and submit reports on welfare initiatives undertaken during the period.",
	},
	{
		phrases: []string{"stray", "dog"},
		text:    "Notification concerning the management and welfare of stray dogs, covering sterilization programmes, feeding guidelines, and the responsibilities of local bodies under the Animal Birth Control Rules.",
	},
	{
		phrases: []string{"slaughter", "house"},
		text:    "Policy document on slaughterhouse regulation, including licensing requirements, humane handling standards, and compliance timelines for municipal and private facilities.",
	},
	{
		phrases: []string{"transport", "animals"},
		text:    "Notification on the transport of animals, detailing permitted carrier conditions, journey duration limits, and certification requirements under the Transport of Animals Rules.",
	},
}

// Regenerate rebuilds a clean description for a record whose stored text
// is garbled, using only the record's own structural signals.
func Regenerate(rec *model.PolicyRecord) string {
	org := model.MinistryForURL(rec.SourceURL)
	if org == model.UnknownMinistry && rec.Ministry != "" {
		org = rec.Ministry
	}

	lowerTitle := strings.ToLower(rec.Title)

	for _, entry := range curatedDescriptions {
		all := true
		for _, phrase := range entry.phrases {
			if !strings.Contains(lowerTitle, phrase) {
				all = false
				break
			}
		}
		if all {
			return entry.text
		}
	}

	return fmt.Sprintf("%s issued by %s%s. Deadline for responses: %s. Please refer to the original document at the source URL for complete details.",
		docType(lowerTitle), org, topicSuffix(lowerTitle), rec.Deadline)
}

// docType infers the document class from title substrings.
func docType(lowerTitle string) string {
	switch {
	case strings.Contains(lowerTitle, "circular"):
		return "Circular"
	case strings.Contains(lowerTitle, "notification"):
		return "Notification"
	default:
		return "Policy document"
	}
}

// topicSuffix infers a topic-area clause from keyword buckets.
func topicSuffix(lowerTitle string) string {
	switch {
	case containsAny(lowerTitle, "animal", "welfare", "livestock", "cattle", "veterinary", "dog", "bird"):
		return " relating to animal welfare"
	case containsAny(lowerTitle, "parliament", "lok sabha", "rajya sabha", "bill", "committee"):
		return " relating to parliamentary business"
	case containsAny(lowerTitle, "import", "export", "customs", "trade"):
		return " relating to import/export regulation"
	default:
		return ""
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
