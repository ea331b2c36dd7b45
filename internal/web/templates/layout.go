// Package templates renders the Fable web pages as code-only templ
// components. Pages share a single shell so the branding stays in one
// place; dynamic values are escaped before they reach the markup.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const sharedCSS = `
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: linear-gradient(135deg, #f6a821 0%, #d94f70 100%);
            min-height: 100vh;
            padding: 20px;
        }
        .container { max-width: 1100px; margin: 0 auto; }
        .narrow { max-width: 420px; margin: 60px auto 0; }
        .header { text-align: center; color: white; margin-bottom: 32px; }
        .header h1 { font-size: 2.4em; margin-bottom: 8px; text-shadow: 0 2px 4px rgba(0,0,0,0.3); }
        .header p { opacity: 0.9; font-size: 1.05em; }
        .header a { color: white; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 20px; margin-bottom: 20px; }
        .card {
            background: white;
            border-radius: 12px;
            padding: 24px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
        }
        .card h2 { color: #333; font-size: 1.15em; margin-bottom: 14px; }
        .card .value { font-size: 2em; font-weight: bold; color: #d94f70; margin-bottom: 6px; }
        .card .label { color: #666; font-size: 0.9em; }
        .panel { background: white; border-radius: 12px; padding: 24px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); margin-bottom: 20px; }
        .panel h2 { color: #333; font-size: 1.15em; margin-bottom: 14px; }
        form label { display: block; color: #555; font-size: 0.9em; margin: 12px 0 4px; }
        form input, form select {
            width: 100%;
            padding: 10px;
            border: 1px solid #ddd;
            border-radius: 8px;
            font-size: 1em;
        }
        button, .btn {
            display: inline-block;
            margin-top: 16px;
            padding: 10px 18px;
            background: #d94f70;
            color: white;
            border: none;
            border-radius: 8px;
            font-size: 1em;
            cursor: pointer;
            text-decoration: none;
        }
        button:hover, .btn:hover { background: #c23b5c; }
        .btn-outline { background: transparent; border: 2px solid white; }
        .btn-small { margin: 0; padding: 4px 10px; font-size: 0.85em; }
        .btn-muted { background: #888; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #eee; color: #444; font-size: 0.92em; }
        th { color: #888; font-weight: 600; text-transform: uppercase; font-size: 0.78em; }
        .message { margin-top: 14px; font-size: 0.92em; color: #555; min-height: 1.2em; }
        .message.error { color: #c0392b; }
        .badge { display: inline-block; padding: 2px 10px; border-radius: 10px; font-size: 0.8em; font-weight: 600; }
        .badge.ok { background: #e8f8f0; color: #27ae60; }
        .badge.off { background: #fdeaea; color: #c0392b; }
        .footer { text-align: center; color: white; opacity: 0.85; margin-top: 28px; font-size: 0.9em; }
        .footer a { color: white; }
`

// page wraps body markup in the shared Fable shell. The body is
// trusted markup built by this package; only title needs escaping.
func page(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>%s</style>
</head>
<body>
%s
</body>
</html>`, templ.EscapeString(title), sharedCSS, body)
		return err
	})
}

// fragment renders markup without the page shell, for HTMX swaps.
func fragment(body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	})
}

// esc shortens the escape call in builder-heavy components.
func esc(s string) string {
	return templ.EscapeString(s)
}

// jsString renders s as a JavaScript string literal so tokens and
// user-supplied values can be embedded in inline scripts.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
