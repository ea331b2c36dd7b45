// Package export renders a generated story into downloadable documents.
package export

import (
	"errors"
	"fmt"
)

var ErrInvalidFormat = errors.New("invalid export format")

// Format is one of the supported export renderings.
type Format int

const (
	Text Format = iota + 1
	Screenplay
	JSON
	Markdown
	HTML
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{Text, Screenplay, JSON, Markdown, HTML}
}

var formatNames = map[Format]string{
	Text:       "text",
	Screenplay: "screenplay",
	JSON:       "json",
	Markdown:   "markdown",
	HTML:       "html",
}

var formatExts = map[Format]string{
	Text:       "txt",
	Screenplay: "txt",
	JSON:       "json",
	Markdown:   "md",
	HTML:       "html",
}

func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Ext returns the file extension used for download names.
func (f Format) Ext() string {
	if ext, ok := formatExts[f]; ok {
		return ext
	}
	return "txt"
}

// ParseFormat maps a request string onto a Format.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (allowed: text, screenplay, json, markdown, html)", ErrInvalidFormat, s)
}
