package oracle

import "strings"

// Tone selects the register of a generated draft response.
type Tone string

const (
	ToneLegal      Tone = "legal"
	ToneEmotional  Tone = "emotional"
	ToneDataBacked Tone = "data_backed"
	ToneFinancial  Tone = "financial"
	ToneBusiness   Tone = "business"
	ToneLivelihood Tone = "livelihood"
)

// Tones lists all known tones in canonical order.
func Tones() []Tone {
	return []Tone{ToneLegal, ToneEmotional, ToneDataBacked, ToneFinancial, ToneBusiness, ToneLivelihood}
}

// NormalizeTone maps arbitrary input to the nearest known tone by
// case- and punctuation-insensitive substring match, defaulting to legal.
// The function is total and idempotent: every canonical tone maps to
// itself and every input maps to a canonical tone.
func NormalizeTone(input string) Tone {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return -1
	}, input)

	switch {
	case strings.Contains(cleaned, "emotion"):
		return ToneEmotional
	case strings.Contains(cleaned, "data"):
		return ToneDataBacked
	case strings.Contains(cleaned, "financ"):
		return ToneFinancial
	case strings.Contains(cleaned, "business"):
		return ToneBusiness
	case strings.Contains(cleaned, "livelihood"):
		return ToneLivelihood
	default:
		return ToneLegal
	}
}
