package domain

import "time"

// Entity types used by favorites and change events.
const (
	EntityProperty = "property"
	EntityProject  = "project"
	EntityAgent    = "agent"
	EntityBuilder  = "builder"
)

// IsEntityType reports whether t names a catalog entity.
func IsEntityType(t string) bool {
	switch t {
	case EntityProperty, EntityProject, EntityAgent, EntityBuilder:
		return true
	}
	return false
}

// Entity is a catalog record addressable by ID.
type Entity interface {
	EntityID() string
}

// Location is a postal location used by properties and projects.
type Location struct {
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state,omitempty" validate:"max=100"`
	Country string `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
}

// Property is a listing for sale or rent.
type Property struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description,omitempty" validate:"max=5000"`
	Price       float64   `json:"price" validate:"gte=0"`
	Currency    string    `json:"currency" validate:"required,iso4217"`
	Type        string    `json:"type" validate:"required,oneof=apartment house villa plot office"`
	Status      string    `json:"status" validate:"required,oneof=sale rent sold"`
	Bedrooms    int       `json:"bedrooms" validate:"gte=0,lte=50"`
	AreaSqm     float64   `json:"areaSqm" validate:"gte=0"`
	Location    Location  `json:"location"`
	Images      []string  `json:"images,omitempty" validate:"dive,url"`
	AgentID     string    `json:"agentId,omitempty"`
	ProjectID   string    `json:"projectId,omitempty"`
	Featured    bool      `json:"featured"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

func (p Property) EntityID() string { return p.ID }

// Validate checks the validation tags.
func (p *Property) Validate() error { return validatorInstance.Struct(p) }

// Project is a development by a builder, grouping several properties.
type Project struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name" validate:"required,min=2,max=200"`
	Description string    `json:"description,omitempty" validate:"max=5000"`
	BuilderID   string    `json:"builderId" validate:"required"`
	Status      string    `json:"status" validate:"required,oneof=upcoming ongoing completed"`
	Location    Location  `json:"location"`
	Images      []string  `json:"images,omitempty" validate:"dive,url"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

func (p Project) EntityID() string { return p.ID }

func (p *Project) Validate() error { return validatorInstance.Struct(p) }

// Agent is a salesperson visitors can contact.
type Agent struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name" validate:"required,min=2,max=120"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone,omitempty" validate:"omitempty,e164"`
	PhotoURL  string    `json:"photoUrl,omitempty" validate:"omitempty,url"`
	Bio       string    `json:"bio,omitempty" validate:"max=2000"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (a Agent) EntityID() string { return a.ID }

func (a *Agent) Validate() error { return validatorInstance.Struct(a) }

// Builder is a construction company.
type Builder struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name" validate:"required,min=2,max=200"`
	Website     string    `json:"website,omitempty" validate:"omitempty,url"`
	LogoURL     string    `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Description string    `json:"description,omitempty" validate:"max=5000"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

func (b Builder) EntityID() string { return b.ID }

func (b *Builder) Validate() error { return validatorInstance.Struct(b) }
