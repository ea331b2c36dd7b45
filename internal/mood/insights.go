package mood

import "fmt"

// Insight is the fixed editorial record behind a mood label: how the mood
// reads on screen and which film genre it maps to.
type Insight struct {
	Label       Label    `json:"label"`
	Description string   `json:"description"`
	Themes      []string `json:"themes"`
	Tone        string   `json:"tone"`
	Genre       string   `json:"genre"`
	Emoji       string   `json:"emoji"`
}

var insights = map[Label]Insight{
	Happy: {
		Label:       Happy,
		Description: "Open-hearted and bright; the world cooperates for once.",
		Themes:      []string{"community", "gratitude", "small joys"},
		Tone:        "warm and buoyant",
		Genre:       "Comedy",
		Emoji:       "😊",
	},
	Sad: {
		Label:       Sad,
		Description: "Heavy and tender; something loved is slipping away.",
		Themes:      []string{"loss", "memory", "quiet dignity"},
		Tone:        "muted and elegiac",
		Genre:       "Drama",
		Emoji:       "😢",
	},
	Angry: {
		Label:       Angry,
		Description: "Hot and focused; a line has been crossed and someone noticed.",
		Themes:      []string{"injustice", "defiance", "standing ground"},
		Tone:        "taut and propulsive",
		Genre:       "Thriller",
		Emoji:       "😠",
	},
	Calm: {
		Label:       Calm,
		Description: "Still and spacious; time moves at the speed of breathing.",
		Themes:      []string{"patience", "presence", "renewal"},
		Tone:        "unhurried and observant",
		Genre:       "Science Fiction",
		Emoji:       "😌",
	},
	Excited: {
		Label:       Excited,
		Description: "Electric and forward-leaning; everything is about to happen.",
		Themes:      []string{"momentum", "daring", "joyful risk"},
		Tone:        "kinetic and bright",
		Genre:       "Adventure",
		Emoji:       "🤩",
	},
	Nervous: {
		Label:       Nervous,
		Description: "Coiled and watchful; the floorboards have opinions tonight.",
		Themes:      []string{"courage", "vulnerability", "the far side of fear"},
		Tone:        "suspended and close",
		Genre:       "Horror",
		Emoji:       "😰",
	},
	Romantic: {
		Label:       Romantic,
		Description: "Soft-focus and magnetic; two orbits start to match.",
		Themes:      []string{"serendipity", "tenderness", "two becoming a team"},
		Tone:        "glowing and intimate",
		Genre:       "Romance",
		Emoji:       "💕",
	},
}

// InsightFor returns the editorial record for a label.
func InsightFor(l Label) (Insight, error) {
	insight, ok := insights[l]
	if !ok {
		return Insight{}, fmt.Errorf("%w: %d", ErrInvalidLabel, int(l))
	}
	return insight, nil
}

// Insights returns the records for all seven labels in declaration order.
func Insights() []Insight {
	out := make([]Insight, 0, len(insights))
	for _, l := range Labels() {
		out = append(out, insights[l])
	}
	return out
}
