// Package mood classifies free text into a closed set of mood labels.
package mood

import (
	"errors"
	"fmt"
)

// ErrInvalidLabel is returned when a value outside the seven declared labels
// reaches a parse or lookup boundary.
var ErrInvalidLabel = errors.New("invalid mood label")

// Label is one of the seven mood categories. The zero value is invalid so an
// unset Label can never pass for a real one.
type Label int

const (
	Happy Label = iota + 1
	Sad
	Angry
	Calm
	Excited
	Nervous
	Romantic
)

// Labels returns every label in declaration order. Declaration order is also
// the tie-break order used by Classify.
func Labels() []Label {
	return []Label{Happy, Sad, Angry, Calm, Excited, Nervous, Romantic}
}

var labelNames = map[Label]string{
	Happy:    "happy",
	Sad:      "sad",
	Angry:    "angry",
	Calm:     "calm",
	Excited:  "excited",
	Nervous:  "nervous",
	Romantic: "romantic",
}

// Valid reports whether l is one of the seven declared labels.
func (l Label) Valid() bool {
	return l >= Happy && l <= Romantic
}

func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("mood.Label(%d)", int(l))
}

// ParseLabel maps a wire-format string onto a Label.
func ParseLabel(s string) (Label, error) {
	for _, l := range Labels() {
		if labelNames[l] == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (allowed: happy, sad, angry, calm, excited, nervous, romantic)", ErrInvalidLabel, s)
}

// MarshalText renders the label as its wire-format name.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLabel, int(l))
	}
	return []byte(labelNames[l]), nil
}

// UnmarshalText parses a wire-format name into the label.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
