package store

import (
	"context"
	"errors"

	"matrixadmin.app/panel/internal/model"
)

var ErrNotFound = errors.New("not found")

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
	UpsertByEmail(ctx context.Context, user *model.User) error
}

type SessionStore interface {
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) error
}

type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	Create(ctx context.Context, org *model.Organization) error
	Delete(ctx context.Context, id int64) error // soft delete
	List(ctx context.Context, limit, offset int32) ([]model.Organization, error)
	Count(ctx context.Context) (int64, error)
}

type MemberStore interface {
	Create(ctx context.Context, member *model.OrganizationMember) error
	// GetMatrixOwner resolves the panel-wide authorization predicate: a
	// membership with role owner on a matrix-typed organization. Zero-or-one
	// row semantics; ErrNotFound means the user does not qualify.
	GetMatrixOwner(ctx context.Context, userID int64) (model.MemberRole, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}
