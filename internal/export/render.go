package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/content"
)

// Document is the render input. Handlers fill it from a fresh bundle or from
// a stored story, so edited versions export exactly what was saved.
type Document struct {
	Title      string          `json:"title"`
	Tagline    string          `json:"tagline"`
	Mood       string          `json:"mood"`
	Style      string          `json:"style"`
	Engine     string          `json:"engine,omitempty"`
	Author     string          `json:"author,omitempty"`
	Story      []string        `json:"story"`
	Themes     []string        `json:"themes,omitempty"`
	Poster     *content.Poster `json:"poster,omitempty"`
	Soundtrack []catalog.Track `json:"soundtrack,omitempty"`
}

// Render produces the document bytes and their content type.
func Render(doc Document, f Format) ([]byte, string, error) {
	switch f {
	case Text:
		return renderText(doc), "text/plain; charset=utf-8", nil
	case Screenplay:
		return renderScreenplay(doc), "text/plain; charset=utf-8", nil
	case JSON:
		return renderJSON(doc)
	case Markdown:
		return renderMarkdown(doc), "text/markdown; charset=utf-8", nil
	case HTML:
		return renderHTML(doc)
	default:
		return nil, "", fmt.Errorf("%w: %d (allowed: text, screenplay, json, markdown, html)", ErrInvalidFormat, int(f))
	}
}

// Filename builds a download name from the title and format, for the
// Content-Disposition header.
func Filename(doc Document, f Format) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, doc.Title)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "story"
	}
	return slug + "." + f.Ext()
}

func renderText(doc Document) []byte {
	var b strings.Builder
	title := strings.ToUpper(doc.Title)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	if doc.Tagline != "" {
		b.WriteString(doc.Tagline + "\n\n")
	}
	b.WriteString(fmt.Sprintf("A %s story in the %s voice.\n\n", doc.Mood, doc.Style))
	for _, paragraph := range doc.Story {
		b.WriteString(paragraph + "\n\n")
	}
	if len(doc.Themes) > 0 {
		b.WriteString("Themes: " + strings.Join(doc.Themes, ", ") + "\n")
	}
	return []byte(b.String())
}

func renderScreenplay(doc Document) []byte {
	var b strings.Builder
	b.WriteString(strings.ToUpper(doc.Title) + "\n\n")
	if doc.Tagline != "" {
		b.WriteString("\"" + doc.Tagline + "\"\n\n")
	}
	b.WriteString("FADE IN:\n\n")
	for i, paragraph := range doc.Story {
		b.WriteString(fmt.Sprintf("SCENE %d\n\n", i+1))
		b.WriteString(paragraph + "\n\n")
	}
	b.WriteString("FADE OUT.\n")
	return []byte(b.String())
}

func renderJSON(doc Document) ([]byte, string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encoding export: %w", err)
	}
	return data, "application/json", nil
}

func renderMarkdown(doc Document) []byte {
	var b strings.Builder
	b.WriteString("# " + doc.Title + "\n\n")
	if doc.Tagline != "" {
		b.WriteString("> " + doc.Tagline + "\n\n")
	}
	b.WriteString(fmt.Sprintf("*A %s story in the %s voice.*\n\n", doc.Mood, doc.Style))
	for _, paragraph := range doc.Story {
		b.WriteString(paragraph + "\n\n")
	}
	if doc.Poster != nil {
		b.WriteString("## Poster\n\n")
		b.WriteString("- Palette: " + strings.Join(doc.Poster.Palette, ", ") + "\n")
		b.WriteString("- Typography: " + doc.Poster.Typography + "\n")
		b.WriteString("- Layout: " + doc.Poster.Layout + "\n")
		if len(doc.Poster.Iconography) > 0 {
			b.WriteString("- Iconography: " + strings.Join(doc.Poster.Iconography, ", ") + "\n")
		}
		if doc.Poster.Accent != "" {
			b.WriteString("- Accent: " + doc.Poster.Accent + "\n")
		}
		if doc.Poster.Caption != "" {
			b.WriteString("\n> " + doc.Poster.Caption + "\n")
		}
		b.WriteString("\n")
	}
	if len(doc.Soundtrack) > 0 {
		b.WriteString("## Soundtrack\n\n")
		for i, track := range doc.Soundtrack {
			b.WriteString(fmt.Sprintf("%d. \"%s\" by %s (%s)\n", i+1, track.Title, track.Artist, track.Cue))
		}
		b.WriteString("\n")
	}
	if len(doc.Themes) > 0 {
		b.WriteString("Themes: " + strings.Join(doc.Themes, ", ") + "\n")
	}
	return []byte(b.String())
}

func renderHTML(doc Document) ([]byte, string, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<title>" + html.EscapeString(doc.Title) + "</title>\n")
	buf.WriteString("</head>\n<body>\n")
	if err := goldmark.Convert(renderMarkdown(doc), &buf); err != nil {
		return nil, "", fmt.Errorf("rendering html: %w", err)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), "text/html; charset=utf-8", nil
}
