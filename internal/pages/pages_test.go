package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"

	"github.com/nfrund/propertyhub/internal/domain"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestHome_RendersLiveFragments(t *testing.T) {
	saved := domain.Favorite{EntityType: domain.EntityProperty, EntityID: "p1"}
	out := render(t, Home(HomeData{
		Lang:  language.English,
		Prefs: domain.Preferences{Theme: domain.ThemeDark, Location: "Lisbon"},
		Sections: []domain.HomeSection{
			{Section: "hero", Content: map[string]any{"title": "Find your home", "subtitle": "Since 1999", "listings": 42.0}},
		},
		Properties: []domain.Property{
			{ID: "p1", Title: "Sea view flat", Price: 450000, Currency: "EUR", Bedrooms: 2, AreaSqm: 85, Location: domain.Location{City: "Porto"}, Featured: true},
			{ID: "p2", Title: "Cottage", Price: 1200, Currency: "USD"},
		},
		Agents:    []domain.Agent{{ID: "7", Name: "Ana", Email: "ana@example.com"}},
		Favorited: func(f domain.Favorite) bool { return f == saved },
	}))

	assert.Contains(t, strings.ToLower(out), "<!doctype html>")
	assert.Contains(t, out, `data-theme="dark"`)
	assert.Contains(t, out, "Lisbon")
	assert.Contains(t, out, "<title>Home - PropertyHub</title>")

	assert.Contains(t, out, `hx-trigger="home_content_changed from:body"`)
	assert.Contains(t, out, `hx-trigger="properties_changed from:body"`)
	assert.Contains(t, out, `hx-trigger="agents_changed from:body"`)
	assert.Contains(t, out, `hx-get="/fragments/properties"`)

	assert.Contains(t, out, "Find your home")
	assert.Contains(t, out, "<dt>listings</dt><dd>42</dd>")
	assert.Contains(t, out, `class="property featured"`)
	assert.Contains(t, out, "450,000")
	assert.Contains(t, out, `aria-pressed="true"`)
	assert.Contains(t, out, `aria-pressed="false"`)
	assert.Contains(t, out, "mailto:ana@example.com")
}

func TestFavoriteButton_PostsEntity(t *testing.T) {
	out := render(t, FavoriteButton(domain.Favorite{EntityType: "agent", EntityID: "7"}, false))
	assert.Contains(t, out, `hx-post="/api/favorites"`)
	assert.Contains(t, out, `&#34;entityType&#34;:&#34;agent&#34;`)
	assert.Contains(t, out, ">Save</button>")
}

func TestPropertyList_Empty(t *testing.T) {
	out := render(t, PropertyList(language.English, nil, nil))
	assert.Contains(t, out, "No properties listed yet.")
}

func TestHomeSection_TitleFallsBackToKey(t *testing.T) {
	out := render(t, HomeSections([]domain.HomeSection{{Section: "featured_areas", Content: map[string]any{}}}))
	assert.Contains(t, out, "<h2>featured areas</h2>")
}

func TestNotificationBadge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NotificationBadge(3).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `class="badge badge-unread"`)
	assert.Contains(t, buf.String(), ">3</span>")
}
