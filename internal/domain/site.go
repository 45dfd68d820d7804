package domain

import "time"

// HomeSection is one block of the home page (hero, featured, testimonials).
// Content is free-form; its shape depends on the section.
type HomeSection struct {
	Section   string         `json:"section" validate:"required,section"`
	Content   map[string]any `json:"content" validate:"required"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty"`
}

func (s *HomeSection) Validate() error { return validatorInstance.Struct(s) }

// Favorite marks a catalog entity as saved by the visitor.
type Favorite struct {
	EntityType string `json:"entityType" validate:"required,entitytype"`
	EntityID   string `json:"entityId" validate:"required,max=100"`
}

func (f *Favorite) Validate() error { return validatorInstance.Struct(f) }

// Inquiry is a contact request sent from the public site.
type Inquiry struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name" validate:"required,min=2,max=120"`
	Email      string    `json:"email" validate:"required,email"`
	Phone      string    `json:"phone,omitempty" validate:"omitempty,e164"`
	Message    string    `json:"message" validate:"required,min=5,max=2000"`
	EntityType string    `json:"entityType,omitempty" validate:"omitempty,entitytype"`
	EntityID   string    `json:"entityId,omitempty" validate:"required_with=EntityType"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

func (i *Inquiry) Validate() error { return validatorInstance.Struct(i) }

// Notification is an admin-facing message produced by the backend.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials are exchanged with the backend for a bearer token.
type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

func (c *Credentials) Validate() error { return validatorInstance.Struct(c) }

// Themes accepted by Preferences.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Preferences are visitor settings kept in the session cookie.
type Preferences struct {
	Theme    string `json:"theme" form:"theme" validate:"omitempty,oneof=light dark system"`
	Location string `json:"location" form:"location" validate:"omitempty,max=100"`
}

func (p *Preferences) Validate() error { return validatorInstance.Struct(p) }
