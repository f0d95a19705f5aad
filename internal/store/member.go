package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"matrixadmin.app/panel/core/db/sqlc"
	"matrixadmin.app/panel/internal/model"
)

type memberStore struct {
	queries *sqlc.Queries
}

func newMemberStore(queries *sqlc.Queries) MemberStore {
	return &memberStore{queries: queries}
}

func (s *memberStore) Create(ctx context.Context, member *model.OrganizationMember) error {
	row, err := s.queries.CreateOrganizationMember(ctx, sqlc.CreateOrganizationMemberParams{
		UserID:         member.UserID,
		OrganizationID: member.OrganizationID,
		Role:           string(member.Role),
	})
	if err != nil {
		return err
	}
	*member = *toMemberModel(row)
	return nil
}

func (s *memberStore) GetMatrixOwner(ctx context.Context, userID int64) (model.MemberRole, error) {
	row, err := s.queries.GetMatrixOwnerMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return model.MemberRole(row.Role), nil
}

func (s *memberStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.queries.CountMembershipsByUser(ctx, userID)
}

func toMemberModel(row sqlc.OrganizationMember) *model.OrganizationMember {
	return &model.OrganizationMember{
		UserID:         row.UserID,
		OrganizationID: row.OrganizationID,
		Role:           model.MemberRole(row.Role),
		CreatedAt:      row.CreatedAt.Time,
	}
}
