package dto

import (
	"time"

	"matrixadmin.app/panel/internal/model"
)

type CreateCompanyRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=255"`
	Slug       string `json:"slug" binding:"omitempty,max=255"` // derived from the name when absent
	AdminName  string `json:"admin_name" binding:"required,min=1,max=255"`
	AdminEmail string `json:"admin_email" binding:"required,email"`
}

// CreateCompanyResponse carries its own outcome flag. A request that reaches
// the domain and is turned away (slug taken, not authorized) still answers
// 200 with Success false; Error is only set in that case.
type CreateCompanyResponse struct {
	Company *CompanyResponse `json:"company,omitempty"`
	Error   string           `json:"error,omitempty"`
	Success bool             `json:"success"`
}

type CompanyResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CompanyListResponse struct {
	Companies  []CompanyResponse `json:"companies"`
	TotalCount int64             `json:"total_count"`
	Page       int32             `json:"page"`
	PageSize   int32             `json:"page_size"`
}

type SlugAvailableResponse struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}

func ToCompanyResponse(org *model.Organization) *CompanyResponse {
	return &CompanyResponse{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		Type:      string(org.Type),
		Status:    string(org.Status),
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}
