package mood

import (
	"errors"
	"testing"
)

func TestInsightForCoversEveryLabel(t *testing.T) {
	for _, l := range Labels() {
		insight, err := InsightFor(l)
		if err != nil {
			t.Fatalf("InsightFor(%s): %v", l, err)
		}
		if insight.Label != l {
			t.Errorf("InsightFor(%s).Label = %s", l, insight.Label)
		}
		if insight.Description == "" || insight.Tone == "" || insight.Genre == "" || insight.Emoji == "" {
			t.Errorf("InsightFor(%s) has empty fields: %+v", l, insight)
		}
		if len(insight.Themes) == 0 {
			t.Errorf("InsightFor(%s) has no themes", l)
		}
	}
}

func TestInsightForRejectsUnknownLabel(t *testing.T) {
	if _, err := InsightFor(Label(0)); !errors.Is(err, ErrInvalidLabel) {
		t.Errorf("InsightFor(0) error = %v, want ErrInvalidLabel", err)
	}
	if _, err := InsightFor(Label(99)); !errors.Is(err, ErrInvalidLabel) {
		t.Errorf("InsightFor(99) error = %v, want ErrInvalidLabel", err)
	}
}

func TestInsightsOrdering(t *testing.T) {
	all := Insights()
	if len(all) != len(Labels()) {
		t.Fatalf("Insights() returned %d records, want %d", len(all), len(Labels()))
	}
	for i, l := range Labels() {
		if all[i].Label != l {
			t.Errorf("Insights()[%d].Label = %s, want %s", i, all[i].Label, l)
		}
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		min   float64
		max   float64
	}{
		{"plain sentence stays at floor", "feeling fine today", 1.0, 1.0},
		{"exclamations raise the score", "amazing!!!", 2.4, 2.6},
		{"shouted words raise the score", "this is AMAZING NEWS", 1.5, 1.7},
		{"single letter I is not shouting", "I am fine", 1.0, 1.0},
		{"ceiling holds", "WOW WOW WOW WOW WOW!!!!!!!!!!!!!!!!", 5.0, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intensity(tt.input)
			if got < tt.min || got > tt.max {
				t.Errorf("Intensity(%q) = %v, want in [%v, %v]", tt.input, got, tt.min, tt.max)
			}
		})
	}
}

func TestIntensityLongInputBonus(t *testing.T) {
	long := ""
	for i := 0; i < 60; i++ {
		long += "word "
	}
	if got := Intensity(long); got < 2.0 {
		t.Errorf("Intensity(long input) = %v, want >= 2.0", got)
	}
}
