package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"matrixadmin.app/panel/core/db/sqlc"
	"matrixadmin.app/panel/internal/model"
)

type organizationStore struct {
	queries *sqlc.Queries
}

func newOrganizationStore(queries *sqlc.Queries) OrganizationStore {
	return &organizationStore{queries: queries}
}

func (s *organizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	row, err := s.queries.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) Create(ctx context.Context, org *model.Organization) error {
	row, err := s.queries.CreateOrganization(ctx, sqlc.CreateOrganizationParams{
		ID:      org.ID,
		Name:    org.Name,
		Slug:    org.Slug,
		OrgType: string(org.Type),
		Status:  string(org.Status),
	})
	if err != nil {
		return err
	}
	*org = *toOrganizationModel(row)
	return nil
}

func (s *organizationStore) Delete(ctx context.Context, id int64) error {
	return s.queries.SoftDeleteOrganization(ctx, id)
}

func (s *organizationStore) List(ctx context.Context, limit, offset int32) ([]model.Organization, error) {
	rows, err := s.queries.ListOrganizations(ctx, sqlc.ListOrganizationsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return toOrganizationModels(rows), nil
}

func (s *organizationStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountOrganizations(ctx)
}

func toOrganizationModel(row sqlc.Organization) *model.Organization {
	return &model.Organization{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		Type:      model.OrganizationType(row.OrgType),
		Status:    model.OrganizationStatus(row.Status),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
		IsDeleted: row.IsDeleted,
	}
}

func toOrganizationModels(rows []sqlc.Organization) []model.Organization {
	result := make([]model.Organization, len(rows))
	for i, row := range rows {
		result[i] = *toOrganizationModel(row)
	}
	return result
}
