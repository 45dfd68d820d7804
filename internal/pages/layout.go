// Package pages holds the server-rendered HTML of the public site. Lists are
// htmx fragments that refetch themselves when the browser receives the
// matching bus notification over the websocket (see web/static/app.js).
package pages

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/propertyhub/internal/domain"
)

const siteName = "PropertyHub"

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// pageTitle appends the site name to a page title.
func pageTitle(title string) string {
	if title != "" {
		return title + " - " + siteName
	}
	return siteName
}

// Page wraps body in the site layout. The theme preference is exposed as
// data-theme on <html>.
func Page(title string, prefs domain.Preferences, body ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Data("theme", prefs.Theme),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(pageTitle(title))),
				Script(Src(htmxSrc), Defer()),
				Script(Src("/static/app.js"), Defer()),
			),
			Body(
				Header(
					Class("site-header"),
					A(Href("/"), g.Text(siteName)),
					g.If(prefs.Location != "", Span(Class("location"), g.Text(prefs.Location))),
				),
				Main(body...),
			),
		),
	)
}
