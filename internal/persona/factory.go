package persona

import (
	"fmt"
)

// ForStyle returns the engine behind a style profile. An out-of-enum value
// is the only failure; the engines themselves are total functions.
func ForStyle(s Style) (Engine, error) {
	switch s {
	case GPT4:
		return gpt4Engine{}, nil
	case Claude3:
		return claude3Engine{}, nil
	case BERT:
		return bertEngine{}, nil
	case LLaMA2:
		return llama2Engine{}, nil
	default:
		return nil, fmt.Errorf("%w: %d (allowed: gpt4, claude3, bert, llama2)", ErrInvalidStyle, int(s))
	}
}

// Engines returns one engine per declared style, in declaration order.
func Engines() []Engine {
	return []Engine{gpt4Engine{}, claude3Engine{}, bertEngine{}, llama2Engine{}}
}
