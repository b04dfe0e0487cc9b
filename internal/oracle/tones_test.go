package oracle

import "testing"

func TestNormalizeTone_KnownVariants(t *testing.T) {
	cases := []struct {
		input string
		want  Tone
	}{
		{"legal", ToneLegal},
		{"LEGAL", ToneLegal},
		{"Legal tone please", ToneLegal},
		{"emotional", ToneEmotional},
		{"emotion-led", ToneEmotional},
		{"data_backed", ToneDataBacked},
		{"dataBacked", ToneDataBacked},
		{"data backed!!", ToneDataBacked},
		{"financial", ToneFinancial},
		{"finance", ToneFinancial},
		{"business", ToneBusiness},
		{"livelihood", ToneLivelihood},
		{"LIVELIHOOD-focused", ToneLivelihood},
	}

	for _, tc := range cases {
		if got := NormalizeTone(tc.input); got != tc.want {
			t.Errorf("NormalizeTone(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeTone_UnknownDefaultsToLegal(t *testing.T) {
	for _, input := range []string{"", "???", "angry", "x1y2z3", "MODE=7"} {
		if got := NormalizeTone(input); got != ToneLegal {
			t.Errorf("NormalizeTone(%q) = %s, want legal default", input, got)
		}
	}
}

func TestNormalizeTone_TotalAndIdempotent(t *testing.T) {
	inputs := []string{"legal", "emotional!", "Data-Backed", "financial", "business", "livelihood", "garbage", ""}

	known := make(map[Tone]bool)
	for _, tone := range Tones() {
		known[tone] = true
	}

	for _, input := range inputs {
		once := NormalizeTone(input)
		if !known[once] {
			t.Errorf("NormalizeTone(%q) = %s is not a known tone", input, once)
		}
		if twice := NormalizeTone(string(once)); twice != once {
			t.Errorf("NormalizeTone not idempotent: %q -> %s -> %s", input, once, twice)
		}
	}
}
