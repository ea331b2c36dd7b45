package persona

import "fmt"

// claude3Engine writes in the reflective register: it acknowledges the
// feeling first, then thinks the story through out loud.
type claude3Engine struct{}

func (claude3Engine) Style() Style { return Claude3 }

func (claude3Engine) Name() string { return "claude3-simulated" }

func (claude3Engine) Compose(req ComposeRequest) []string {
	arc := req.Arc
	lex := req.Lexicon
	moodName := req.Mood.String()

	return []string{
		fmt.Sprintf("I appreciate you sharing this; a %s feeling deserves a story told %s gently. So: %s, a %s place to begin. Here lives %s, with %s never far.",
			moodName, lex.Intensifier, arc.Setting, lex.Adjectives[0], arc.Protagonist, arc.Companion),
		fmt.Sprintf("%s what matters first is the wish underneath everything, which is %s. There is a %s honesty in wanting something that simply. And honesty attracts complication: %s.",
			lex.Connectives[0], arc.Goal, lex.Adjectives[1], arc.Conflict),
		fmt.Sprintf("%s: %s. Notice how the difficulty does not vanish. It is held, %s and without panic, until it changes shape on its own terms.",
			lex.Connectives[1], arc.Turn, lex.Adjectives[2]),
		fmt.Sprintf("%s the ending feels less like victory than like understanding: %s. Perhaps that is what a %s story is for. Not to resolve %s, but to sit beside it until %s feels possible.",
			lex.Connectives[2], arc.Resolution, moodName, arc.Themes[0], arc.Themes[1]),
	}
}
