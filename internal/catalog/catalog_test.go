package catalog

import (
	"strings"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
)

func TestLoadParsesAllTables(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	for _, label := range mood.Labels() {
		arc, err := c.StoryArc(label)
		if err != nil {
			t.Fatalf("StoryArc(%s) returned error: %v", label, err)
		}
		if arc.Setting == "" || arc.Protagonist == "" {
			t.Errorf("StoryArc(%s) is missing setting or protagonist", label)
		}
		if !strings.HasPrefix(arc.Goal, "to ") {
			t.Errorf("StoryArc(%s).Goal = %q, want an infinitive phrase", label, arc.Goal)
		}

		poster, err := c.Poster(label)
		if err != nil {
			t.Fatalf("Poster(%s) returned error: %v", label, err)
		}
		if len(poster.Palette) < 3 {
			t.Errorf("Poster(%s) has %d palette colors, want at least 3", label, len(poster.Palette))
		}
		for _, color := range poster.Palette {
			if strings.TrimSpace(color) == "" {
				t.Errorf("Poster(%s) palette contains an empty color", label)
			}
		}
		if poster.Caption == "" {
			t.Errorf("Poster(%s) has no caption", label)
		}

		tracks, err := c.Soundtrack(label)
		if err != nil {
			t.Fatalf("Soundtrack(%s) returned error: %v", label, err)
		}
		if len(tracks) < 2 {
			t.Errorf("Soundtrack(%s) has %d tracks, want at least 2", label, len(tracks))
		}
		for _, track := range tracks {
			if track.Title == "" || track.Artist == "" {
				t.Errorf("Soundtrack(%s) has a track missing title or artist", label)
			}
		}
	}

	for _, style := range persona.Styles() {
		lexicon, err := c.Lexicon(style)
		if err != nil {
			t.Fatalf("Lexicon(%s) returned error: %v", style, err)
		}
		if lexicon.DisplayName == "" {
			t.Errorf("Lexicon(%s) has no display name", style)
		}
		if lexicon.ParagraphTarget < 3 {
			t.Errorf("Lexicon(%s).ParagraphTarget = %d, want at least 3", style, lexicon.ParagraphTarget)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if _, err := c.StoryArc(mood.Label(0)); err == nil {
		t.Error("StoryArc(0) should return an error")
	}
	if _, err := c.Poster(mood.Label(99)); err == nil {
		t.Error("Poster(99) should return an error")
	}
	if _, err := c.Lexicon(persona.Style(0)); err == nil {
		t.Error("Lexicon(0) should return an error")
	}
}

func TestTemplates(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	templates := c.Templates()
	if len(templates) < 4 {
		t.Fatalf("Templates() returned %d entries, want at least 4", len(templates))
	}

	for _, want := range []string{"coming_of_age", "hero_journey", "mystery", "romance_arc"} {
		tpl, ok := c.Template(want)
		if !ok {
			t.Errorf("Template(%q) not found", want)
			continue
		}
		if tpl.Key != want {
			t.Errorf("Template(%q).Key = %q", want, tpl.Key)
		}
		if len(tpl.Beats) < 5 {
			t.Errorf("Template(%q) has %d beats, want at least 5", want, len(tpl.Beats))
		}
	}

	// Sorted by key.
	for i := 1; i < len(templates); i++ {
		if templates[i-1].Key > templates[i].Key {
			t.Errorf("Templates() not sorted: %q before %q", templates[i-1].Key, templates[i].Key)
		}
	}
}

func TestLexiconVoicesAreDistinct(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	seen := make(map[string]persona.Style)
	for _, style := range persona.Styles() {
		lexicon, err := c.Lexicon(style)
		if err != nil {
			t.Fatalf("Lexicon(%s) returned error: %v", style, err)
		}
		if prev, ok := seen[lexicon.Intensifier]; ok {
			t.Errorf("styles %s and %s share intensifier %q", prev, style, lexicon.Intensifier)
		}
		seen[lexicon.Intensifier] = style
	}
}
