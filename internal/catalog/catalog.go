// Package catalog parses the embedded content data into typed tables. The
// data is static, so Load validates completeness once and every accessor
// after that is a plain lookup.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
	"github.com/Conceptual-Machines/fable-api/pkg/embedded"
)

// Poster is the visual concept attached to a mood: what the one-sheet for
// this story would look like.
type Poster struct {
	Palette     []string `json:"palette"`
	Typography  string   `json:"typography"`
	Layout      string   `json:"layout"`
	Iconography []string `json:"iconography"`
	Caption     string   `json:"caption"`
}

// Track is one soundtrack recommendation.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Cue    string `json:"cue"`
}

// Template is one entry of the story template library.
type Template struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Logline string   `json:"logline"`
	Beats   []string `json:"beats"`
	BestFor []string `json:"best_for"`
}

// Catalog holds every parsed table. It is immutable after Load.
type Catalog struct {
	arcs        map[mood.Label]persona.Arc
	posters     map[mood.Label]Poster
	soundtracks map[mood.Label][]Track
	lexicons    map[persona.Style]persona.Lexicon
	templates   map[string]Template
}

// Load parses and validates all embedded data files. It fails when a file is
// malformed or a mood/style is missing a table entry, which only happens when
// the embedded data itself is broken.
func Load() (*Catalog, error) {
	c := &Catalog{
		arcs:        make(map[mood.Label]persona.Arc),
		posters:     make(map[mood.Label]Poster),
		soundtracks: make(map[mood.Label][]Track),
		lexicons:    make(map[persona.Style]persona.Lexicon),
		templates:   make(map[string]Template),
	}

	if err := loadByLabel(embedded.StoryArcsJSON, "story_arcs", c.arcs); err != nil {
		return nil, err
	}
	if err := loadByLabel(embedded.PosterPalettesJSON, "poster_palettes", c.posters); err != nil {
		return nil, err
	}
	if err := loadByLabel(embedded.SoundtracksJSON, "soundtracks", c.soundtracks); err != nil {
		return nil, err
	}
	if err := c.loadLexicons(); err != nil {
		return nil, err
	}
	if err := c.loadTemplates(); err != nil {
		return nil, err
	}

	return c, c.validate()
}

// loadByLabel parses a {label name: value} JSON object into a map keyed by
// mood.Label, rejecting unknown label names.
func loadByLabel[T any](data []byte, file string, into map[mood.Label]T) error {
	raw := make(map[string]T)
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}
	for name, value := range raw {
		label, err := mood.ParseLabel(name)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		into[label] = value
	}
	return nil
}

func (c *Catalog) loadLexicons() error {
	raw := make(map[string]persona.Lexicon)
	if err := json.Unmarshal(embedded.ToneLexiconsJSON, &raw); err != nil {
		return fmt.Errorf("parsing tone_lexicons: %w", err)
	}
	for name, lexicon := range raw {
		style, err := persona.ParseStyle(name)
		if err != nil {
			return fmt.Errorf("tone_lexicons: %w", err)
		}
		c.lexicons[style] = lexicon
	}
	return nil
}

func (c *Catalog) loadTemplates() error {
	raw := make(map[string]Template)
	if err := json.Unmarshal(embedded.StoryTemplatesJSON, &raw); err != nil {
		return fmt.Errorf("parsing story_templates: %w", err)
	}
	for key, tpl := range raw {
		tpl.Key = key
		c.templates[key] = tpl
	}
	return nil
}

// validate checks that every mood and style is fully covered and that table
// entries are rich enough for the engines to write from.
func (c *Catalog) validate() error {
	for _, label := range mood.Labels() {
		arc, ok := c.arcs[label]
		if !ok {
			return fmt.Errorf("story_arcs: missing entry for %s", label)
		}
		if len(arc.Motifs) < 2 || len(arc.Themes) < 3 {
			return fmt.Errorf("story_arcs: %s needs at least two motifs and three themes", label)
		}
		poster, ok := c.posters[label]
		if !ok {
			return fmt.Errorf("poster_palettes: missing entry for %s", label)
		}
		if len(poster.Palette) == 0 {
			return fmt.Errorf("poster_palettes: %s has an empty palette", label)
		}
		if len(c.soundtracks[label]) == 0 {
			return fmt.Errorf("soundtracks: missing entry for %s", label)
		}
	}
	for _, style := range persona.Styles() {
		lexicon, ok := c.lexicons[style]
		if !ok {
			return fmt.Errorf("tone_lexicons: missing entry for %s", style)
		}
		if len(lexicon.Adjectives) < 3 || len(lexicon.Connectives) < 3 {
			return fmt.Errorf("tone_lexicons: %s needs at least three adjectives and three connectives", style)
		}
	}
	if len(c.templates) == 0 {
		return fmt.Errorf("story_templates: no entries")
	}
	return nil
}

// StoryArc returns the narrative ingredients for a mood.
func (c *Catalog) StoryArc(label mood.Label) (persona.Arc, error) {
	arc, ok := c.arcs[label]
	if !ok {
		return persona.Arc{}, fmt.Errorf("%w: %d", mood.ErrInvalidLabel, int(label))
	}
	return arc, nil
}

// Poster returns the poster concept for a mood.
func (c *Catalog) Poster(label mood.Label) (Poster, error) {
	poster, ok := c.posters[label]
	if !ok {
		return Poster{}, fmt.Errorf("%w: %d", mood.ErrInvalidLabel, int(label))
	}
	return poster, nil
}

// Soundtrack returns the track recommendations for a mood.
func (c *Catalog) Soundtrack(label mood.Label) ([]Track, error) {
	tracks, ok := c.soundtracks[label]
	if !ok {
		return nil, fmt.Errorf("%w: %d", mood.ErrInvalidLabel, int(label))
	}
	return tracks, nil
}

// Lexicon returns the word kit for a style profile.
func (c *Catalog) Lexicon(style persona.Style) (persona.Lexicon, error) {
	lexicon, ok := c.lexicons[style]
	if !ok {
		return persona.Lexicon{}, fmt.Errorf("%w: %d", persona.ErrInvalidStyle, int(style))
	}
	return lexicon, nil
}

// Template returns one story template by key.
func (c *Catalog) Template(key string) (Template, bool) {
	tpl, ok := c.templates[key]
	return tpl, ok
}

// Templates returns the whole template library, sorted by key.
func (c *Catalog) Templates() []Template {
	keys := make([]string, 0, len(c.templates))
	for key := range c.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Template, 0, len(keys))
	for _, key := range keys {
		out = append(out, c.templates[key])
	}
	return out
}
