package service

import (
	"context"
	"errors"
	"fmt"

	"matrixadmin.app/panel/internal/store"
)

// AuthorizationService answers the two access questions the panel asks.
// The predicates are deliberately separate: qualifying for the panel is
// stricter than qualifying to open the creation dialog.
type AuthorizationService interface {
	// IsMatrixOwner reports whether the user holds an owner membership on a
	// matrix-typed organization. A false result with a nil error is a clean
	// denial; a non-nil error is an infrastructure fault, not a denial.
	IsMatrixOwner(ctx context.Context, userID int64) (bool, error)
	// IsMemberOfAny reports whether the user belongs to at least one
	// organization, regardless of role or organization type.
	IsMemberOfAny(ctx context.Context, userID int64) (bool, error)
}

type authorizationService struct {
	memberStore store.MemberStore
}

func NewAuthorizationService(memberStore store.MemberStore) AuthorizationService {
	return &authorizationService{memberStore: memberStore}
}

func (s *authorizationService) IsMatrixOwner(ctx context.Context, userID int64) (bool, error) {
	_, err := s.memberStore.GetMatrixOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolving matrix ownership: %w", err)
	}
	return true, nil
}

func (s *authorizationService) IsMemberOfAny(ctx context.Context, userID int64) (bool, error) {
	count, err := s.memberStore.CountByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("counting memberships: %w", err)
	}
	return count > 0, nil
}
