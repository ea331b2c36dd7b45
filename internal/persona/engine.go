package persona

import (
	"github.com/Conceptual-Machines/fable-api/internal/mood"
)

// Arc carries the narrative ingredients an engine writes from. The catalog
// owns the data; engines only read it. Fields follow a fixed grammar:
// Setting, Protagonist and Companion are noun phrases, Goal is an infinitive
// ("to ..."), Conflict, Turn and Resolution are independent clauses.
type Arc struct {
	Setting     string   `json:"setting"`
	Protagonist string   `json:"protagonist"`
	Companion   string   `json:"companion"`
	Goal        string   `json:"goal"`
	Conflict    string   `json:"conflict"`
	Turn        string   `json:"turn"`
	Resolution  string   `json:"resolution"`
	Motifs      []string `json:"motifs"`
	Themes      []string `json:"themes"`
}

// Lexicon is a style profile's word kit: the adjectives, connectives and
// framing the engine leans on. Adjectives and Connectives each carry at
// least three entries; the catalog validates this at load time.
type Lexicon struct {
	DisplayName     string   `json:"display_name"`
	Description     string   `json:"description"`
	Adjectives      []string `json:"adjectives"`
	Connectives     []string `json:"connectives"`
	Intensifier     string   `json:"intensifier"`
	ParagraphTarget int      `json:"paragraph_target"`
}

// ComposeRequest bundles everything an engine needs for one story.
type ComposeRequest struct {
	Mood    mood.Label
	Arc     Arc
	Lexicon Lexicon
}

// Engine writes a story in one personality's register.
// Engines MUST be deterministic: the same request always yields byte-equal
// paragraphs, and every compose returns at least three of them.
type Engine interface {
	// Compose renders the arc into ordered story paragraphs.
	Compose(req ComposeRequest) []string

	// Style identifies the profile the engine implements.
	Style() Style

	// Name returns the engine identifier used in logs and traces
	// (e.g., "gpt4-simulated").
	Name() string
}
