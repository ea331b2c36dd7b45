package persona

import (
	"strings"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEngine is a test implementation of the Engine interface
type MockEngine struct {
	name        string
	style       Style
	composeFunc func(req ComposeRequest) []string
}

func (m *MockEngine) Name() string { return m.name }

func (m *MockEngine) Style() Style { return m.style }

func (m *MockEngine) Compose(req ComposeRequest) []string {
	if m.composeFunc != nil {
		return m.composeFunc(req)
	}
	return []string{"one", "two", "three"}
}

func testComposeRequest(m mood.Label) ComposeRequest {
	return ComposeRequest{
		Mood: m,
		Arc: Arc{
			Setting:     "a lighthouse town at the edge of the map",
			Protagonist: "Ada Voss, a cartographer who no longer trusts her own maps",
			Companion:   "a retired harbor pilot with an encyclopedic memory",
			Goal:        "to chart the cove the storms keep redrawing",
			Conflict:    "the survey boat is grounded a week before the tide turns",
			Turn:        "the whole harbor lends her their dinghies one dawn",
			Resolution:  "the new chart is pinned up in the lighthouse for everyone",
			Motifs:      []string{"salt wind", "pencil lines", "lantern light"},
			Themes:      []string{"trust", "revision", "shared water"},
		},
		Lexicon: Lexicon{
			DisplayName:     "Test Profile",
			Description:     "test register",
			Adjectives:      []string{"plain", "sturdy", "weathered", "bright"},
			Connectives:     []string{"First", "Later", "Finally"},
			Intensifier:     "quietly",
			ParagraphTarget: 4,
		},
	}
}

func TestMockEngineCompose(t *testing.T) {
	callCount := 0
	mock := &MockEngine{
		name:  "mock",
		style: GPT4,
		composeFunc: func(req ComposeRequest) []string {
			callCount++
			require.Equal(t, mood.Happy, req.Mood)
			return []string{"a", "b", "c"}
		},
	}

	paragraphs := mock.Compose(testComposeRequest(mood.Happy))
	assert.Equal(t, 1, callCount)
	assert.Len(t, paragraphs, 3)
	assert.Equal(t, "mock", mock.Name())
}

func TestForStyleReturnsEveryEngine(t *testing.T) {
	for _, s := range Styles() {
		engine, err := ForStyle(s)
		require.NoError(t, err)
		require.NotNil(t, engine)
		assert.Equal(t, s, engine.Style())
		assert.NotEmpty(t, engine.Name())
	}
}

func TestForStyleRejectsOutOfEnum(t *testing.T) {
	for _, s := range []Style{0, 5, -1, 99} {
		_, err := ForStyle(s)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidStyle)
	}
}

func TestParseStyle(t *testing.T) {
	for _, s := range Styles() {
		parsed, err := ParseStyle(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStyle("gpt5")
	assert.ErrorIs(t, err, ErrInvalidStyle)
}

func TestEnginesProduceAtLeastThreeParagraphs(t *testing.T) {
	for _, engine := range Engines() {
		for _, m := range mood.Labels() {
			paragraphs := engine.Compose(testComposeRequest(m))
			require.GreaterOrEqual(t, len(paragraphs), 3,
				"%s composing %s", engine.Name(), m)
			for i, p := range paragraphs {
				assert.NotEmpty(t, strings.TrimSpace(p),
					"%s composing %s: paragraph %d empty", engine.Name(), m, i)
				assert.NotContains(t, p, "\n",
					"%s composing %s: paragraph %d spans lines", engine.Name(), m, i)
			}
		}
	}
}

func TestEnginesAreDeterministic(t *testing.T) {
	req := testComposeRequest(mood.Nervous)
	for _, engine := range Engines() {
		first := engine.Compose(req)
		second := engine.Compose(req)
		assert.Equal(t, first, second, "%s is not deterministic", engine.Name())
	}
}

func TestEngineToneMarkers(t *testing.T) {
	tests := []struct {
		style   Style
		markers []string
	}{
		{GPT4, []string{"delves into", "a profound tapestry"}},
		{Claude3, []string{"I appreciate you sharing"}},
		{BERT, []string{"Mood Analysis:", "ACT 1", "ACT 2", "ACT 3", "Key Themes:"}},
		{LLaMA2, []string{"Once upon a time", "Pretty cool, right?"}},
	}

	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			engine, err := ForStyle(tt.style)
			require.NoError(t, err)

			joined := strings.Join(engine.Compose(testComposeRequest(mood.Happy)), "\n")
			for _, marker := range tt.markers {
				assert.Contains(t, joined, marker,
					"%s output is missing its tone marker", tt.style)
			}
		})
	}
}

func TestEngineOutputMentionsMood(t *testing.T) {
	engine, err := ForStyle(GPT4)
	require.NoError(t, err)

	for _, m := range mood.Labels() {
		joined := strings.Join(engine.Compose(testComposeRequest(m)), "\n")
		assert.Contains(t, joined, m.String())
	}
}
