package mood

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Label
		minConf float64
		maxConf float64
	}{
		{
			name:    "product brief example clears half confidence",
			input:   "I feel so happy and joyful today",
			want:    Happy,
			minConf: 0.5,
			maxConf: 1.0,
		},
		{
			name:    "uppercase input still matches",
			input:   "I AM FURIOUS ABOUT THIS",
			want:    Angry,
			minConf: 0.1,
			maxConf: 1.0,
		},
		{
			name:    "emoji counts as a keyword",
			input:   "rough week 😢",
			want:    Sad,
			minConf: 0.1,
			maxConf: 1.0,
		},
		{
			name:    "most distinct hits wins",
			input:   "unhappy, gloomy, crying into my coffee",
			want:    Sad,
			minConf: 0.5,
			maxConf: 1.0,
		},
		{
			name:    "calm stack of keywords",
			input:   "a calm, peaceful and relaxed morning",
			want:    Calm,
			minConf: 0.5,
			maxConf: 1.0,
		},
		{
			name:    "romantic two-keyword sentence",
			input:   "a tender love letter",
			want:    Romantic,
			minConf: 0.3,
			maxConf: 1.0,
		},
		{
			name:    "nervous anticipation",
			input:   "anxious and worried about tomorrow",
			want:    Nervous,
			minConf: 0.3,
			maxConf: 1.0,
		},
		{
			name:    "excited launch morning",
			input:   "thrilled and pumped, so excited for race day",
			want:    Excited,
			minConf: 0.5,
			maxConf: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input)
			if got.Label != tt.want {
				t.Errorf("Classify(%q).Label = %s, want %s", tt.input, got.Label, tt.want)
			}
			if got.Confidence <= tt.minConf || got.Confidence > tt.maxConf {
				t.Errorf("Classify(%q).Confidence = %v, want in (%v, %v]",
					tt.input, got.Confidence, tt.minConf, tt.maxConf)
			}
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	inputs := []string{"", "   ", "\n\t", "quarterly report attached", "zzzzzz"}

	for _, input := range inputs {
		got := Classify(input)
		if got.Label != FallbackLabel {
			t.Errorf("Classify(%q).Label = %s, want fallback %s", input, got.Label, FallbackLabel)
		}
		if got.Confidence != FallbackConfidence {
			t.Errorf("Classify(%q).Confidence = %v, want %v", input, got.Confidence, FallbackConfidence)
		}
	}
}

func TestClassifyTieBreakUsesDeclarationOrder(t *testing.T) {
	// One happy keyword, one sad keyword: happy is declared first and takes
	// the tie.
	got := Classify("happy and sad at the same time")
	if got.Label != Happy {
		t.Fatalf("tie went to %s, want %s", got.Label, Happy)
	}
}

func TestClassifyAlwaysInBounds(t *testing.T) {
	inputs := []string{
		"I feel so happy and joyful today",
		"furious gloomy nervous love calm excited",
		"!!!???",
		"😊😢😠😌🤩😰💕",
		"the quick brown fox jumps over the lazy dog",
	}

	for _, input := range inputs {
		got := Classify(input)
		if !got.Label.Valid() {
			t.Errorf("Classify(%q) returned invalid label %d", input, int(got.Label))
		}
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Classify(%q).Confidence = %v, want in [0,1]", input, got.Confidence)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	input := "nervous but excited, honestly a bit worried"
	first := Classify(input)
	for i := 0; i < 10; i++ {
		if got := Classify(input); got != first {
			t.Fatalf("run %d: Classify(%q) = %+v, want %+v", i, input, got, first)
		}
	}
}

func TestParseLabel(t *testing.T) {
	for _, l := range Labels() {
		parsed, err := ParseLabel(l.String())
		if err != nil {
			t.Fatalf("ParseLabel(%q): %v", l.String(), err)
		}
		if parsed != l {
			t.Errorf("ParseLabel(%q) = %s, want %s", l.String(), parsed, l)
		}
	}

	if _, err := ParseLabel("melancholic"); !errors.Is(err, ErrInvalidLabel) {
		t.Errorf("ParseLabel(melancholic) error = %v, want ErrInvalidLabel", err)
	}
	if _, err := ParseLabel(""); !errors.Is(err, ErrInvalidLabel) {
		t.Errorf("ParseLabel(empty) error = %v, want ErrInvalidLabel", err)
	}
}

func TestLabelTextRoundTrip(t *testing.T) {
	for _, l := range Labels() {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s): %v", l, err)
		}
		var back Label
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != l {
			t.Errorf("round trip %s -> %s", l, back)
		}
	}

	var invalid Label
	if _, err := invalid.MarshalText(); !errors.Is(err, ErrInvalidLabel) {
		t.Errorf("MarshalText(zero) error = %v, want ErrInvalidLabel", err)
	}
}
