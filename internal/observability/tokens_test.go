package observability

import "testing"

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 2},
		{"one two three", 4},
		{"a b c d e f", 8},
	}
	for _, tc := range cases {
		if got := EstimateTokens(tc.text); got != tc.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestEstimateUsage(t *testing.T) {
	usage := EstimateUsage("I feel happy", []string{"one two three", "four five six"})

	if usage.InputTokens != 4 {
		t.Errorf("InputTokens = %d, want 4", usage.InputTokens)
	}
	if usage.OutputTokens != 8 {
		t.Errorf("OutputTokens = %d, want 8", usage.OutputTokens)
	}
	if usage.TotalTokens != usage.InputTokens+usage.OutputTokens {
		t.Errorf("TotalTokens = %d, want %d", usage.TotalTokens, usage.InputTokens+usage.OutputTokens)
	}

	m := usage.Map()
	if m["total_tokens"] != usage.TotalTokens {
		t.Errorf("Map total_tokens = %v", m["total_tokens"])
	}
}
