package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/content"
)

func testDocument() Document {
	return Document{
		Title:   "The Last Edition",
		Tagline: "Every story deserves a last page.",
		Mood:    "sad",
		Style:   "claude3",
		Engine:  "claude3-simulated",
		Story: []string{
			"The bookshop had one week left on its lease.",
			"Elias set the farewell cards by hand, letter by letter.",
			"On the last night the press finally gave out, and the letters took over.",
		},
		Themes: []string{"loss", "memory"},
		Poster: &content.Poster{
			Poster: catalog.Poster{
				Palette:     []string{"deep blue", "muted gray", "soft purple"},
				Typography:  "thin serif, lowercase title",
				Layout:      "lone figure against a low horizon",
				Iconography: []string{"single umbrella", "rain on glass"},
				Caption:     "Some goodbyes take a lifetime.",
			},
			Accent: "soft ivory wash and a handwritten margin note",
		},
		Soundtrack: []catalog.Track{
			{Title: "Hurt", Artist: "Johnny Cash", Cue: "closing montage"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		parsed, err := ParseFormat(f.String())
		if err != nil {
			t.Fatalf("ParseFormat(%q) returned error: %v", f.String(), err)
		}
		if parsed != f {
			t.Errorf("ParseFormat(%q) = %v, want %v", f.String(), parsed, f)
		}
	}

	for _, bad := range []string{"", "pdf", "TEXT", "docx"} {
		if _, err := ParseFormat(bad); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrInvalidFormat", bad, err)
		}
	}
}

func TestRenderText(t *testing.T) {
	out, contentType, err := Render(testDocument(), Text)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if contentType != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", contentType)
	}

	text := string(out)
	if !strings.HasPrefix(text, "THE LAST EDITION\n================") {
		t.Errorf("text export missing title banner:\n%s", text)
	}
	if !strings.Contains(text, "A sad story in the claude3 voice.") {
		t.Errorf("text export missing byline:\n%s", text)
	}
	if !strings.Contains(text, "Themes: loss, memory") {
		t.Errorf("text export missing themes line:\n%s", text)
	}
}

func TestRenderScreenplay(t *testing.T) {
	doc := testDocument()
	out, _, err := Render(doc, Screenplay)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	script := string(out)
	if !strings.Contains(script, "FADE IN:") {
		t.Error("screenplay missing FADE IN:")
	}
	if !strings.HasSuffix(script, "FADE OUT.\n") {
		t.Error("screenplay missing FADE OUT.")
	}
	for i := range doc.Story {
		slug := strings.Contains(script, "SCENE "+string(rune('1'+i)))
		if !slug {
			t.Errorf("screenplay missing SCENE %d slugline", i+1)
		}
	}
	if strings.Count(script, "SCENE ") != len(doc.Story) {
		t.Errorf("screenplay has %d sluglines, want %d", strings.Count(script, "SCENE "), len(doc.Story))
	}
}

func TestRenderJSON(t *testing.T) {
	doc := testDocument()
	out, contentType, err := Render(doc, JSON)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}

	var decoded Document
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("json export does not decode: %v", err)
	}
	if decoded.Title != doc.Title || len(decoded.Story) != len(doc.Story) {
		t.Errorf("json export lost fields: %+v", decoded)
	}
}

func TestRenderMarkdownAndHTML(t *testing.T) {
	doc := testDocument()

	md, _, err := Render(doc, Markdown)
	if err != nil {
		t.Fatalf("Render markdown returned error: %v", err)
	}
	for _, want := range []string{"# The Last Edition", "> Every story deserves a last page.", "## Poster", "## Soundtrack", "\"Hurt\" by Johnny Cash"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("markdown export missing %q", want)
		}
	}

	htmlOut, contentType, err := Render(doc, HTML)
	if err != nil {
		t.Fatalf("Render html returned error: %v", err)
	}
	if contentType != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", contentType)
	}
	for _, want := range []string{"<title>The Last Edition</title>", "<h1", "<h2", "</html>"} {
		if !strings.Contains(string(htmlOut), want) {
			t.Errorf("html export missing %q", want)
		}
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, _, err := Render(testDocument(), Format(0))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Render(0) error = %v, want ErrInvalidFormat", err)
	}
	_, _, err = Render(testDocument(), Format(42))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Render(42) error = %v, want ErrInvalidFormat", err)
	}
}

func TestFilename(t *testing.T) {
	doc := testDocument()
	cases := []struct {
		format Format
		want   string
	}{
		{Text, "the-last-edition.txt"},
		{Screenplay, "the-last-edition.txt"},
		{JSON, "the-last-edition.json"},
		{Markdown, "the-last-edition.md"},
		{HTML, "the-last-edition.html"},
	}
	for _, tc := range cases {
		if got := Filename(doc, tc.format); got != tc.want {
			t.Errorf("Filename(%s) = %q, want %q", tc.format, got, tc.want)
		}
	}

	empty := Document{Title: "!!!"}
	if got := Filename(empty, Text); got != "story.txt" {
		t.Errorf("Filename fallback = %q, want story.txt", got)
	}
}
