package content

import (
	"fmt"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
)

// Generator builds bundles from catalog data. It holds no mutable state and
// is safe for concurrent use.
type Generator struct {
	catalog *catalog.Catalog
}

func NewGenerator(c *catalog.Catalog) *Generator {
	return &Generator{catalog: c}
}

// titles and taglines are fixed tables. The entry for a pair is chosen by
// index, never by randomness, so regenerating a story reproduces it exactly.
var titles = map[mood.Label][]string{
	mood.Happy:    {"The Harbor in Bloom", "Paint the Morning", "A Town Full of Windows", "Festival of Small Hours"},
	mood.Sad:      {"The Last Edition", "Ink and Rain", "What the Shelves Held", "A Quiet Closing"},
	mood.Angry:    {"The Valley Says No", "Orchard and Stone", "Three Days Signed", "Dust on the Courthouse Steps"},
	mood.Calm:     {"Still Water Season", "The Cedar Hour", "Glass Lake Morning", "The Slow Work of Light"},
	mood.Excited:  {"Switchback", "Half a Wheel Ahead", "The Piano Crate Derby", "Downhill from Here"},
	mood.Nervous:  {"Opening Night", "The Monologue", "Cue Light", "Stage Left of Fear"},
	mood.Romantic: {"One Cable", "Chestnuts and Cardamom", "The Long Way Home", "Market of Small Sparks"},
}

var taglines = map[mood.Label][]string{
	mood.Happy:    {"Some mornings paint themselves.", "Every shutter opens eventually.", "Joy is a group project.", "The forecast was wrong about everything."},
	mood.Sad:      {"Every story deserves a last page.", "Some doors close full.", "Print what you cannot keep.", "Grief, set in type."},
	mood.Angry:    {"They signed. She stood.", "The river was never theirs to sell.", "Loud is a kind of love.", "No is a complete sentence."},
	mood.Calm:     {"The lake remembers how.", "Patience floats.", "Built slow, like all true things.", "Quiet is not empty."},
	mood.Excited:  {"Gravity is just the starting gun.", "Built from a piano. Runs like a rocket.", "Hold the line. Cut the corner.", "Fast friends, faster cart."},
	mood.Nervous:  {"Fear has a front row seat.", "Everyone forgets a line once.", "The curtain rises either way.", "Breathe in. Step out."},
	mood.Romantic: {"Two stalls. One spark.", "Love at first outage.", "Share the power. Split the cone.", "Some prizes walk home with you."},
}

// accents are the style-specific finishing touch on the poster concept.
var accents = map[persona.Style]string{
	persona.GPT4:    "brushed gold-leaf border with engraved credits block",
	persona.Claude3: "soft ivory wash and a handwritten margin note",
	persona.BERT:    "thin gridline overlay with silver section rules",
	persona.LLaMA2:  "marker-red doodles scrawled across the corner",
}

// Generate composes the bundle for a mood and style. It returns
// mood.ErrInvalidLabel or persona.ErrInvalidStyle for values outside the
// enums and never fails for valid pairs.
func (g *Generator) Generate(m mood.Label, s persona.Style) (Bundle, error) {
	if !m.Valid() {
		return Bundle{}, fmt.Errorf("%w: %d (allowed: happy, sad, angry, calm, excited, nervous, romantic)", mood.ErrInvalidLabel, int(m))
	}
	engine, err := persona.ForStyle(s)
	if err != nil {
		return Bundle{}, err
	}

	arc, err := g.catalog.StoryArc(m)
	if err != nil {
		return Bundle{}, err
	}
	lexicon, err := g.catalog.Lexicon(s)
	if err != nil {
		return Bundle{}, err
	}
	posterBase, err := g.catalog.Poster(m)
	if err != nil {
		return Bundle{}, err
	}
	tracks, err := g.catalog.Soundtrack(m)
	if err != nil {
		return Bundle{}, err
	}

	story := engine.Compose(persona.ComposeRequest{
		Mood:    m,
		Arc:     arc,
		Lexicon: lexicon,
	})

	return Bundle{
		Mood:    m,
		Style:   s,
		Engine:  engine.Name(),
		Title:   pick(titles[m], m, s),
		Tagline: pick(taglines[m], m, s),
		Story:   story,
		Themes:  arc.Themes,
		Poster: Poster{
			Poster: posterBase,
			Accent: accents[s],
		},
		Soundtrack: tracks,
		Metrics:    computeMetrics(story),
	}, nil
}

// pick indexes a fixed table by the pair so every style lands on a different
// entry for the same mood.
func pick(entries []string, m mood.Label, s persona.Style) string {
	return entries[(int(m)+int(s))%len(entries)]
}
