// Package views holds the HTML pages served outside the JSON API: the
// styled 404 and 500 error pages. Components are hand-written
// templ.ComponentFunc values rather than generated templates.
package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// NotFound renders the 404 error page with a link back to the site.
func NotFound(siteName string) templ.Component {
	return errorPage(siteName, "404", "Page Not Found",
		"The page you are looking for does not exist.")
}

// ServerError renders the 500 error page.
func ServerError(siteName string) templ.Component {
	return errorPage(siteName, "500", "Something Went Wrong",
		"An unexpected error occurred. Please try again later.")
}

func errorPage(siteName, code, title, detail string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s — %s</title>
<style>
body { font-family: system-ui, sans-serif; color: #222; background: #fafafa;
       display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; }
main { text-align: center; padding: 2rem; }
h1 { font-size: 4rem; margin: 0; }
p { color: #555; }
a { color: #06c; }
</style>
</head>
<body>
<main>
<h1>%s</h1>
<h2>%s</h2>
<p>%s</p>
<p><a href="/">Back to Site</a></p>
</main>
</body>
</html>
`, code, html.EscapeString(siteName), code, html.EscapeString(title), html.EscapeString(detail))
		return err
	})
}
