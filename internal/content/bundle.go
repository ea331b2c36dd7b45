// Package content assembles the full creative bundle for a (mood, style)
// pair: story paragraphs, a poster concept, a soundtrack, and basic metrics.
// Everything here is deterministic. Same inputs, same bundle.
package content

import (
	"strings"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
)

// Poster is the mood's poster concept plus a style-specific accent.
type Poster struct {
	catalog.Poster
	Accent string `json:"accent"`
}

// Metrics summarizes the composed story. SceneCount is the number of scenes
// the screenplay export renders, one per paragraph.
type Metrics struct {
	WordCount      int `json:"word_count"`
	ParagraphCount int `json:"paragraph_count"`
	SceneCount     int `json:"scene_count"`
	ReadingTimeMin int `json:"reading_time_min"`
}

// Bundle is the complete generated package for one mood and style.
type Bundle struct {
	Mood       mood.Label      `json:"mood"`
	Style      persona.Style   `json:"style"`
	Engine     string          `json:"engine"`
	Title      string          `json:"title"`
	Tagline    string          `json:"tagline"`
	Story      []string        `json:"story"`
	Themes     []string        `json:"themes"`
	Poster     Poster          `json:"poster"`
	Soundtrack []catalog.Track `json:"soundtrack"`
	Metrics    Metrics         `json:"metrics"`
}

const wordsPerMinute = 250

func computeMetrics(story []string) Metrics {
	words := 0
	for _, paragraph := range story {
		words += len(strings.Fields(paragraph))
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return Metrics{
		WordCount:      words,
		ParagraphCount: len(story),
		SceneCount:     len(story),
		ReadingTimeMin: minutes,
	}
}
