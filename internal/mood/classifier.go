package mood

import (
	"strings"
)

// Result is the outcome of a single classification call. It is never
// persisted by this package.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Fallback values used when the input is empty or matches nothing.
const (
	FallbackLabel      = Calm
	FallbackConfidence = 0.2
)

// Keyword tables are deliberately compact: confidence is the fraction of a
// label's keywords found in the input, so every extra keyword dilutes the
// score of an ordinary one- or two-keyword sentence.
var keywords = map[Label][]string{
	Happy:    {"happy", "joy", "joyful", "cheerful", "😊"},
	Sad:      {"sad", "unhappy", "gloomy", "crying", "😢"},
	Angry:    {"angry", "furious", "annoyed", "irritated", "😠"},
	Calm:     {"calm", "peaceful", "relaxed", "serene", "😌"},
	Excited:  {"excited", "thrilled", "pumped", "ecstatic", "🤩"},
	Nervous:  {"nervous", "anxious", "worried", "jittery", "😰"},
	Romantic: {"romantic", "love", "heart", "tender", "💕"},
}

// Classify maps arbitrary text onto a mood label with a confidence score in
// [0,1]. Matching is a case-insensitive substring scan of each label's
// keyword list; the label with the most distinct keyword hits wins, and ties
// go to the label declared first. Empty or unmatched input falls back to
// FallbackLabel with FallbackConfidence. Classify never fails.
func Classify(text string) Result {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return Result{Label: FallbackLabel, Confidence: FallbackConfidence}
	}

	var best Label
	bestHits := 0
	for _, label := range Labels() {
		hits := 0
		for _, keyword := range keywords[label] {
			if strings.Contains(lowered, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			best = label
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return Result{Label: FallbackLabel, Confidence: FallbackConfidence}
	}

	confidence := float64(bestHits) / float64(len(keywords[best]))
	if confidence > 1.0 {
		confidence = 1.0
	}
	return Result{Label: best, Confidence: confidence}
}
