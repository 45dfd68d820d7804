package pages

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/events"
)

// HomeData is everything the home page shows.
type HomeData struct {
	Lang       language.Tag
	Prefs      domain.Preferences
	Sections   []domain.HomeSection
	Properties []domain.Property
	Projects   []domain.Project
	Agents     []domain.Agent
	Builders   []domain.Builder
	Favorited  Favorited
}

// Home renders the full home page.
func Home(d HomeData) g.Node {
	return Page("Home", d.Prefs,
		HomeSections(d.Sections),
		PropertyList(d.Lang, d.Properties, d.Favorited),
		ProjectList(d.Projects, d.Favorited),
		AgentList(d.Agents, d.Favorited),
		BuilderList(d.Builders, d.Favorited),
	)
}

// HomeSections is the editorial content fragment.
func HomeSections(sections []domain.HomeSection) g.Node {
	return live("home-sections", "/fragments/home", events.TopicHomeContentChanged,
		g.Map(sections, homeSection),
	)
}

// homeSection renders the well-known title/subtitle/body keys as text and
// any other scalar values as a definition list. Nested values are skipped.
func homeSection(s domain.HomeSection) g.Node {
	title, _ := s.Content["title"].(string)
	if title == "" {
		title = strings.ReplaceAll(s.Section, "_", " ")
	}
	subtitle, _ := s.Content["subtitle"].(string)
	body, _ := s.Content["body"].(string)
	image, _ := s.Content["image"].(string)

	var extra []string
	for _, k := range slices.Sorted(maps.Keys(s.Content)) {
		switch k {
		case "title", "subtitle", "body", "image":
			continue
		}
		switch s.Content[k].(type) {
		case string, float64, bool:
			extra = append(extra, k)
		}
	}

	return Article(
		Class("home-section"),
		Data("section", s.Section),
		g.If(image != "", Img(Src(image), Alt(title))),
		H2(g.Text(title)),
		g.If(subtitle != "", P(Class("subtitle"), g.Text(subtitle))),
		g.If(body != "", P(g.Text(body))),
		g.If(len(extra) > 0, Dl(g.Map(extra, func(k string) g.Node {
			return g.Group{Dt(g.Text(k)), Dd(g.Text(fmt.Sprint(s.Content[k])))}
		}))),
	)
}
