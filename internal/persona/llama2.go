package persona

import "fmt"

// llama2Engine writes in the casual register: campfire voice, quick asides.
type llama2Engine struct{}

func (llama2Engine) Style() Style { return LLaMA2 }

func (llama2Engine) Name() string { return "llama2-simulated" }

func (llama2Engine) Compose(req ComposeRequest) []string {
	arc := req.Arc
	lex := req.Lexicon
	moodName := req.Mood.String()

	return []string{
		fmt.Sprintf("Once upon a time, in %s, there lived %s. And %s, never far behind. So yeah, a %s story, the %s kind.",
			arc.Setting, arc.Protagonist, arc.Companion, moodName, lex.Adjectives[0]),
		fmt.Sprintf("%s here's the deal: the whole plan was %s. %s: %s. I'm %s not kidding.",
			lex.Connectives[0], arc.Goal, lex.Connectives[2], arc.Conflict, lex.Intensifier),
		fmt.Sprintf("%s, then it happened: %s. No kidding. The kind of %s moment people tell stories about for years.",
			lex.Connectives[1], arc.Turn, lex.Adjectives[1]),
		fmt.Sprintf("In the end, %s. Call it %s, call it %s. One %s finish either way. Pretty cool, right?",
			arc.Resolution, arc.Themes[0], arc.Themes[1], lex.Adjectives[2]),
	}
}
