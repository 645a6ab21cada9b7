package domain

import (
	"strings"
	"time"
)

type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "House"
	PropertyTypeTownhouse PropertyType = "Townhouse"
	PropertyTypeCondo     PropertyType = "Condo"
	PropertyTypeDuplex    PropertyType = "Duplex"
	PropertyTypeStudio    PropertyType = "Studio"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeOther     PropertyType = "Other"
)

var propertyTypes = map[PropertyType]struct{}{
	PropertyTypeHouse:     {},
	PropertyTypeTownhouse: {},
	PropertyTypeCondo:     {},
	PropertyTypeDuplex:    {},
	PropertyTypeStudio:    {},
	PropertyTypeVilla:     {},
	PropertyTypeApartment: {},
	PropertyTypeOther:     {},
}

func (t PropertyType) Valid() bool {
	_, ok := propertyTypes[t]
	return ok
}

type Property struct {
	ID          string       `json:"id"`
	AgentID     string       `json:"agent_id"`
	Name        string       `json:"name"`
	Type        PropertyType `json:"type"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	PriceCents  int64        `json:"price_cents"`
	Images      []string     `json:"images"`
	Geolocation string       `json:"geolocation,omitempty"`
	Bedrooms    int          `json:"bedrooms"`
	Bathrooms   int          `json:"bathrooms"`
	AreaSqm     int          `json:"area_sqm"`
	Facilities  []string     `json:"facilities"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"review_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PropertyFilter narrows a property listing. An empty Type or "all" matches
// every type; Query matches name, address or type case-insensitively.
type PropertyFilter struct {
	Type  string
	Query string
	Limit int
}

const (
	DefaultPropertyLimit = 20
	LatestPropertyLimit  = 5
	MaxPropertyLimit     = 100
)

// Normalize trims the filter, resolves the "all" sentinel and clamps the limit
// to (0, MaxPropertyLimit].
func (f PropertyFilter) Normalize() PropertyFilter {
	f.Type = strings.TrimSpace(f.Type)
	if strings.EqualFold(f.Type, "all") {
		f.Type = ""
	}
	f.Query = strings.TrimSpace(f.Query)
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultPropertyLimit
	case f.Limit > MaxPropertyLimit:
		f.Limit = MaxPropertyLimit
	}
	return f
}
