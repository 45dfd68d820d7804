package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyValidate(t *testing.T) {
	valid := Property{
		Title:    "Sea view apartment",
		Price:    250000,
		Currency: "EUR",
		Type:     "apartment",
		Status:   "sale",
		Location: Location{City: "Lisbon", Country: "PT"},
	}

	tests := []struct {
		name    string
		modify  func(p *Property)
		wantErr bool
	}{
		{name: "valid", modify: func(*Property) {}},
		{name: "short title", modify: func(p *Property) { p.Title = "ab" }, wantErr: true},
		{name: "negative price", modify: func(p *Property) { p.Price = -1 }, wantErr: true},
		{name: "bad currency", modify: func(p *Property) { p.Currency = "EURO" }, wantErr: true},
		{name: "unknown type", modify: func(p *Property) { p.Type = "castle" }, wantErr: true},
		{name: "missing city", modify: func(p *Property) { p.Location.City = "" }, wantErr: true},
		{name: "bad image url", modify: func(p *Property) { p.Images = []string{"not a url"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFavoriteValidate(t *testing.T) {
	assert.NoError(t, (&Favorite{EntityType: EntityAgent, EntityID: "7"}).Validate())
	assert.Error(t, (&Favorite{EntityType: "cottage", EntityID: "7"}).Validate())
	assert.Error(t, (&Favorite{EntityType: EntityAgent}).Validate())
}

func TestHomeSectionValidate(t *testing.T) {
	assert.NoError(t, (&HomeSection{Section: "hero", Content: map[string]any{"title": "x"}}).Validate())
	assert.Error(t, (&HomeSection{Section: "../etc", Content: map[string]any{}}).Validate())
	assert.Error(t, (&HomeSection{Section: "Hero", Content: map[string]any{}}).Validate())
	assert.Error(t, (&HomeSection{Section: "hero"}).Validate())
}

func TestInquiryValidate(t *testing.T) {
	ok := Inquiry{Name: "Ana", Email: "ana@example.com", Message: "Is it still available?"}
	assert.NoError(t, ok.Validate())

	linked := ok
	linked.EntityType = EntityProperty
	assert.Error(t, linked.Validate(), "entity type without id")
	linked.EntityID = "p1"
	assert.NoError(t, linked.Validate())
}

func TestPreferencesValidate(t *testing.T) {
	assert.NoError(t, (&Preferences{}).Validate())
	assert.NoError(t, (&Preferences{Theme: "dark", Location: "Porto"}).Validate())
	assert.Error(t, (&Preferences{Theme: "neon"}).Validate())
}

func TestIsEntityType(t *testing.T) {
	for _, typ := range []string{EntityProperty, EntityProject, EntityAgent, EntityBuilder} {
		assert.True(t, IsEntityType(typ))
	}
	assert.False(t, IsEntityType("user"))
	assert.True(t, ValidSection("featured_listings"))
	assert.False(t, ValidSection("a/b"))
}
