package observability

import "strings"

// Usage is the simulated token accounting for one generation. The engines
// run no real inference, so tokens are estimated from word counts with the
// usual 4-tokens-per-3-words rule. The numbers feed dashboards and usage
// logs, never billing: credits are flat per story.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// EstimateTokens approximates the token count of a text.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}

// EstimateUsage builds the usage record for a generation from its input text
// and output paragraphs.
func EstimateUsage(input string, story []string) Usage {
	inputTokens := EstimateTokens(input)
	outputTokens := 0
	for _, paragraph := range story {
		outputTokens += EstimateTokens(paragraph)
	}
	return Usage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  inputTokens + outputTokens,
	}
}

// Map renders the usage in the map shape the logger and Langfuse helpers
// take.
func (u Usage) Map() map[string]interface{} {
	return map[string]interface{}{
		"input_tokens":  u.InputTokens,
		"output_tokens": u.OutputTokens,
		"total_tokens":  u.TotalTokens,
	}
}
