package persona

import "fmt"

// bertEngine writes in the structural register: labeled sections, short
// sentences, no ornament.
type bertEngine struct{}

func (bertEngine) Style() Style { return BERT }

func (bertEngine) Name() string { return "bert-simulated" }

func (bertEngine) Compose(req ComposeRequest) []string {
	arc := req.Arc
	lex := req.Lexicon
	moodName := req.Mood.String()

	return []string{
		fmt.Sprintf("Mood Analysis: %s. Register: %s, %s so. Structure: three acts.",
			moodName, lex.Adjectives[0], lex.Intensifier),
		fmt.Sprintf("ACT 1. Location: %s. Subject: %s. Support: %s. Objective: %s.",
			arc.Setting, arc.Protagonist, arc.Companion, arc.Goal),
		fmt.Sprintf("ACT 2. Complication: %s. Pressure: %s. %s: hold position.",
			arc.Conflict, lex.Adjectives[1], lex.Connectives[0]),
		fmt.Sprintf("ACT 3. Pivot: %s. Outcome: %s. %s: objective settled.",
			arc.Turn, arc.Resolution, lex.Connectives[2]),
		fmt.Sprintf("Key Themes: %s, %s, %s. Motifs observed: %s, %s. End of analysis.",
			arc.Themes[0], arc.Themes[1], arc.Themes[2], arc.Motifs[0], arc.Motifs[1]),
	}
}
