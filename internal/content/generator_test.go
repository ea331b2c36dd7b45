package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/mood"
	"github.com/Conceptual-Machines/fable-api/internal/persona"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	return NewGenerator(c)
}

func TestGenerateEveryPair(t *testing.T) {
	g := newTestGenerator(t)

	for _, m := range mood.Labels() {
		for _, s := range persona.Styles() {
			bundle, err := g.Generate(m, s)
			require.NoError(t, err, "Generate(%s, %s)", m, s)

			assert.Equal(t, m, bundle.Mood)
			assert.Equal(t, s, bundle.Style)
			assert.NotEmpty(t, bundle.Engine)
			assert.NotEmpty(t, bundle.Title, "Generate(%s, %s) title", m, s)
			assert.NotEmpty(t, bundle.Tagline, "Generate(%s, %s) tagline", m, s)

			require.GreaterOrEqual(t, len(bundle.Story), 3, "Generate(%s, %s) paragraphs", m, s)
			for i, paragraph := range bundle.Story {
				assert.NotEmpty(t, strings.TrimSpace(paragraph), "Generate(%s, %s) paragraph %d", m, s, i)
			}

			assert.GreaterOrEqual(t, len(bundle.Poster.Palette), 3)
			assert.NotEmpty(t, bundle.Poster.Typography)
			assert.NotEmpty(t, bundle.Poster.Accent)
			assert.NotEmpty(t, bundle.Soundtrack)
			assert.NotEmpty(t, bundle.Themes)

			assert.Positive(t, bundle.Metrics.WordCount)
			assert.Equal(t, len(bundle.Story), bundle.Metrics.ParagraphCount)
			assert.Equal(t, len(bundle.Story), bundle.Metrics.SceneCount)
			assert.GreaterOrEqual(t, bundle.Metrics.ReadingTimeMin, 1)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newTestGenerator(t)

	for _, m := range mood.Labels() {
		for _, s := range persona.Styles() {
			first, err := g.Generate(m, s)
			require.NoError(t, err)
			second, err := g.Generate(m, s)
			require.NoError(t, err)
			assert.Equal(t, first, second, "Generate(%s, %s) differs between calls", m, s)
		}
	}
}

func TestGenerateHappyGPT4(t *testing.T) {
	g := newTestGenerator(t)

	bundle, err := g.Generate(mood.Happy, persona.GPT4)
	require.NoError(t, err)

	assert.Equal(t, "gpt4-simulated", bundle.Engine)

	joined := strings.Join(bundle.Story, "\n")
	assert.Contains(t, joined, "delves into")
	assert.Contains(t, strings.ToLower(joined), "happy")

	assert.Contains(t, bundle.Poster.Palette, "warm yellow")
	assert.Contains(t, bundle.Poster.Accent, "gold-leaf")
}

func TestGenerateTitlesVaryByStyle(t *testing.T) {
	g := newTestGenerator(t)

	seen := make(map[string]bool)
	for _, s := range persona.Styles() {
		bundle, err := g.Generate(mood.Sad, s)
		require.NoError(t, err)
		seen[bundle.Title] = true
	}
	assert.Equal(t, len(persona.Styles()), len(seen), "each style should pick a different title for the same mood")
}

func TestGenerateRejectsOutOfEnum(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.Generate(mood.Label(0), persona.GPT4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mood.ErrInvalidLabel))

	_, err = g.Generate(mood.Label(99), persona.Claude3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mood.ErrInvalidLabel))

	_, err = g.Generate(mood.Happy, persona.Style(0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, persona.ErrInvalidStyle))

	_, err = g.Generate(mood.Happy, persona.Style(42))
	require.Error(t, err)
	assert.True(t, errors.Is(err, persona.ErrInvalidStyle))
}

func TestComputeMetrics(t *testing.T) {
	short := computeMetrics([]string{"one two three", "four five"})
	assert.Equal(t, 5, short.WordCount)
	assert.Equal(t, 2, short.ParagraphCount)
	assert.Equal(t, 2, short.SceneCount)
	assert.Equal(t, 1, short.ReadingTimeMin, "short stories still read for one minute")

	long := computeMetrics([]string{strings.Repeat("word ", 600)})
	assert.Equal(t, 600, long.WordCount)
	assert.Equal(t, 3, long.ReadingTimeMin, "600 words at 250 wpm rounds up to 3 minutes")
}
