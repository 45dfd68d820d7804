package pages

import (
	"encoding/json"
	"strconv"

	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/events"
	"github.com/nfrund/propertyhub/internal/rendering"
)

// Favorited reports whether the current visitor saved an entity.
type Favorited func(domain.Favorite) bool

func noFavorites(domain.Favorite) bool { return false }

// live makes a section refetch its fragment when topic is announced.
func live(id, fragment, topic string, children ...g.Node) g.Node {
	return Section(
		ID(id),
		hx.Get(fragment),
		hx.Trigger(topic+" from:body"),
		hx.Swap("outerHTML"),
		g.Group(children),
	)
}

// FavoriteButton toggles fav for the visitor and replaces itself with the
// updated button.
func FavoriteButton(fav domain.Favorite, on bool) g.Node {
	vals, _ := json.Marshal(fav)
	label := "Save"
	if on {
		label = "Saved"
	}
	return Button(
		Type("button"),
		Class("favorite"),
		Aria("pressed", strconv.FormatBool(on)),
		hx.Post("/api/favorites"),
		hx.Vals(string(vals)),
		hx.Swap("outerHTML"),
		g.Text(label),
	)
}

// PropertyList is the properties fragment.
func PropertyList(lang language.Tag, items []domain.Property, favorited Favorited) g.Node {
	if favorited == nil {
		favorited = noFavorites
	}
	return live("properties", "/fragments/properties", events.TopicPropertiesChanged,
		H2(g.Text("Properties")),
		g.If(len(items) == 0, P(Class("empty"), g.Text("No properties listed yet."))),
		Ul(g.Map(items, func(p domain.Property) g.Node {
			fav := domain.Favorite{EntityType: domain.EntityProperty, EntityID: p.ID}
			class := "property"
			if p.Featured {
				class += " featured"
			}
			return Li(
				Class(class),
				g.Iff(len(p.Images) > 0, func() g.Node {
					return Img(Src(p.Images[0]), Alt(p.Title))
				}),
				H3(g.Text(p.Title)),
				P(Class("price"), g.Text(rendering.FormatPrice(lang, p.Price, p.Currency))),
				P(Class("meta"),
					g.Textf("%s · %d bd · ", p.Location.City, p.Bedrooms),
					g.Text(rendering.FormatArea(lang, p.AreaSqm)),
				),
				FavoriteButton(fav, favorited(fav)),
			)
		})),
	)
}

// ProjectList is the projects fragment.
func ProjectList(items []domain.Project, favorited Favorited) g.Node {
	if favorited == nil {
		favorited = noFavorites
	}
	return live("projects", "/fragments/projects", events.TopicProjectsChanged,
		H2(g.Text("Projects")),
		Ul(g.Map(items, func(p domain.Project) g.Node {
			fav := domain.Favorite{EntityType: domain.EntityProject, EntityID: p.ID}
			return Li(
				Class("project"),
				H3(g.Text(p.Name)),
				P(g.Textf("%s · %s", p.Location.City, p.Status)),
				FavoriteButton(fav, favorited(fav)),
			)
		})),
	)
}

// AgentList is the agents fragment.
func AgentList(items []domain.Agent, favorited Favorited) g.Node {
	if favorited == nil {
		favorited = noFavorites
	}
	return live("agents", "/fragments/agents", events.TopicAgentsChanged,
		H2(g.Text("Our agents")),
		Ul(g.Map(items, func(a domain.Agent) g.Node {
			fav := domain.Favorite{EntityType: domain.EntityAgent, EntityID: a.ID}
			return Li(
				Class("agent"),
				g.If(a.PhotoURL != "", Img(Src(a.PhotoURL), Alt(a.Name))),
				H3(g.Text(a.Name)),
				A(Href("mailto:"+a.Email), g.Text(a.Email)),
				FavoriteButton(fav, favorited(fav)),
			)
		})),
	)
}

// BuilderList is the builders fragment.
func BuilderList(items []domain.Builder, favorited Favorited) g.Node {
	if favorited == nil {
		favorited = noFavorites
	}
	return live("builders", "/fragments/builders", events.TopicBuildersChanged,
		H2(g.Text("Builders")),
		Ul(g.Map(items, func(b domain.Builder) g.Node {
			fav := domain.Favorite{EntityType: domain.EntityBuilder, EntityID: b.ID}
			return Li(
				Class("builder"),
				g.If(b.Website != "", A(Href(b.Website), g.Text(b.Name))),
				g.If(b.Website == "", H3(g.Text(b.Name))),
				FavoriteButton(fav, favorited(fav)),
			)
		})),
	)
}
