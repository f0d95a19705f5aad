package model

import "time"

// OrganizationType classifies tenants. Only the matrix organization's owners
// may use the admin panel; companies created through it are client orgs.
type OrganizationType string

const (
	OrganizationTypeMatrix OrganizationType = "matrix"
	OrganizationTypeClient OrganizationType = "client"
)

// OrganizationStatus is display-only; it never participates in access
// decisions.
type OrganizationStatus string

const (
	OrganizationStatusActive   OrganizationStatus = "active"
	OrganizationStatusInactive OrganizationStatus = "inactive"
)

type Organization struct {
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Type      OrganizationType   `json:"type"`
	Status    OrganizationStatus `json:"status"`
	ID        int64              `json:"id"`
	IsDeleted bool               `json:"-"`
}
