package models

import (
	"time"
)

// Company is a tenant. Ownership is not a column: it is derived from
// partner role assignments, which is also how the per-owner company
// cap is counted.
type Company struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location belongs to exactly one company. The main location is the
// company's default address for collaboration display purposes.
type Location struct {
	ID        int64      `json:"id" db:"id"`
	CompanyID int64      `json:"company_id" db:"company_id"`
	Name      string     `json:"name" db:"name"`
	City      string     `json:"city" db:"city"`
	Address   string     `json:"address" db:"address"`
	MapURL    NullString `json:"map_url,omitempty" db:"map_url"`
	IsMain    bool       `json:"is_main" db:"is_main"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Category is a free-form tag for locations (restaurant, retail, ...)
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// LocationCategory links a location to a category. The company ID is
// part of the key so a link can never leak across tenants; it must
// match the location's owning company.
type LocationCategory struct {
	CompanyID  int64 `json:"company_id" db:"company_id"`
	LocationID int64 `json:"location_id" db:"location_id"`
	CategoryID int64 `json:"category_id" db:"category_id"`
}

// CompanyFilter describes the company search dimensions. Values inside
// a dimension are OR-ed, dimensions are AND-ed. Empty dimensions match
// everything.
type CompanyFilter struct {
	Cities      []string `json:"cities"`
	CategoryIDs []int64  `json:"category_ids"`
}
