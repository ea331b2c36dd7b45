package mood

import (
	"strings"
	"unicode"
)

const (
	intensityFloor   = 1.0
	intensityCeiling = 5.0

	exclamationWeight = 0.5
	shoutedWordWeight = 0.3
	longInputBonus    = 1.0
	longInputWords    = 50
)

// Intensity scores how forcefully a feeling is expressed, on a 1..5 scale.
// Exclamation marks, fully-uppercase words, and sheer length all push the
// score up. It is presentation metadata and plays no part in classification.
func Intensity(text string) float64 {
	score := intensityFloor
	score += exclamationWeight * float64(strings.Count(text, "!"))

	words := strings.Fields(text)
	for _, word := range words {
		if isShouted(word) {
			score += shoutedWordWeight
		}
	}
	if len(words) > longInputWords {
		score += longInputBonus
	}

	if score > intensityCeiling {
		return intensityCeiling
	}
	return score
}

// isShouted reports whether a word is written in all capitals. Single-letter
// words like "I" don't count.
func isShouted(word string) bool {
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}
