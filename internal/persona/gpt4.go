package persona

import "fmt"

// gpt4Engine writes in the verbose register: long paragraphs, formal
// transitions, panoramic detail.
type gpt4Engine struct{}

func (gpt4Engine) Style() Style { return GPT4 }

func (gpt4Engine) Name() string { return "gpt4-simulated" }

func (gpt4Engine) Compose(req ComposeRequest) []string {
	arc := req.Arc
	lex := req.Lexicon
	moodName := req.Mood.String()

	return []string{
		fmt.Sprintf("The story opens in %s, and it lingers there, %s attentive to each %s particular. At its center stands %s, seldom without %s. Together they form a profound tapestry of the %s disposition, one this narrative delves into with patient and layered care.",
			arc.Setting, lex.Intensifier, lex.Adjectives[0], arc.Protagonist, arc.Companion, moodName),
		fmt.Sprintf("%s, the ambition is plain: %s. Yet complication arrives on schedule, for %s. The narrative declines to hurry past this. It weighs the stakes clause by clause, separating what is %s from what merely appears to be, until the true shape of the problem stands revealed.",
			lex.Connectives[0], arc.Goal, arc.Conflict, lex.Adjectives[1]),
		fmt.Sprintf("%s, everything tilts: %s. The prose expands to meet the occasion, %s %s, tracing consequence through consequence the way light moves through %s and %s.",
			lex.Connectives[1], arc.Turn, lex.Intensifier, lex.Adjectives[2], arc.Motifs[0], arc.Motifs[1]),
		fmt.Sprintf("%s the ending earns its stillness: %s. What remains afterward is an extended meditation on %s and %s, a %s story told at full resolution, with nothing skipped and nothing rushed.",
			lex.Connectives[2], arc.Resolution, arc.Themes[0], arc.Themes[1], moodName),
	}
}
