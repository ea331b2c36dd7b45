// Package persona hosts the simulated model personalities that turn a mood
// arc into story prose. Every engine is a deterministic writer; none of them
// calls a real model.
package persona

import (
	"errors"
	"fmt"
)

// ErrInvalidStyle is returned when a value outside the four declared style
// profiles reaches a parse or lookup boundary.
var ErrInvalidStyle = errors.New("invalid style profile")

// Style selects one of the four personality profiles. The zero value is
// invalid so an unset Style can never pass for a real one.
type Style int

const (
	GPT4 Style = iota + 1
	Claude3
	BERT
	LLaMA2
)

// Styles returns every style profile in declaration order.
func Styles() []Style {
	return []Style{GPT4, Claude3, BERT, LLaMA2}
}

var styleNames = map[Style]string{
	GPT4:    "gpt4",
	Claude3: "claude3",
	BERT:    "bert",
	LLaMA2:  "llama2",
}

// Valid reports whether s is one of the four declared profiles.
func (s Style) Valid() bool {
	return s >= GPT4 && s <= LLaMA2
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("persona.Style(%d)", int(s))
}

// ParseStyle maps a wire-format string onto a Style.
func ParseStyle(v string) (Style, error) {
	for _, s := range Styles() {
		if styleNames[s] == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (allowed: gpt4, claude3, bert, llama2)", ErrInvalidStyle, v)
}

// MarshalText renders the style as its wire-format name.
func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStyle, int(s))
	}
	return []byte(styleNames[s]), nil
}

// UnmarshalText parses a wire-format name into the style.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
