package service_test

import (
	"context"

	"matrixadmin.app/panel/internal/model"
	"matrixadmin.app/panel/internal/service"
	"matrixadmin.app/panel/internal/store"
)

type mockUserStore struct {
	getByIDFn        func(ctx context.Context, id int64) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
	upsertByWorkOSFn func(ctx context.Context, user *model.User) error
	upsertByEmailFn  func(ctx context.Context, user *model.User) error
	upsertCalls      int
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	if m.upsertByWorkOSFn != nil {
		return m.upsertByWorkOSFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpsertByEmail(ctx context.Context, user *model.User) error {
	m.upsertCalls++
	if m.upsertByEmailFn != nil {
		return m.upsertByEmailFn(ctx, user)
	}
	return nil
}

type mockSessionStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.Session, error)
	getValidFn         func(ctx context.Context, id int64) (*model.Session, error)
	createFn           func(ctx context.Context, session *model.Session) error
	deleteFn           func(ctx context.Context, id int64) error
	deleteExpiredFn    func(ctx context.Context) error
	deleteExpiredCalls int
}

func (m *mockSessionStore) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context) error {
	m.deleteExpiredCalls++
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

type mockOrganizationStore struct {
	getByIDFn   func(ctx context.Context, id int64) (*model.Organization, error)
	getBySlugFn func(ctx context.Context, slug string) (*model.Organization, error)
	createFn    func(ctx context.Context, org *model.Organization) error
	listFn      func(ctx context.Context, limit, offset int32) ([]model.Organization, error)
	countFn     func(ctx context.Context) (int64, error)
	deleteFn    func(ctx context.Context, id int64) error
	createCalls int
	deleteCalls int
}

func (m *mockOrganizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockOrganizationStore) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, store.ErrNotFound
}

func (m *mockOrganizationStore) Create(ctx context.Context, org *model.Organization) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, org)
	}
	return nil
}

func (m *mockOrganizationStore) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockOrganizationStore) List(ctx context.Context, limit, offset int32) ([]model.Organization, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return []model.Organization{}, nil
}

func (m *mockOrganizationStore) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockMemberStore struct {
	createFn         func(ctx context.Context, member *model.OrganizationMember) error
	getMatrixOwnerFn func(ctx context.Context, userID int64) (model.MemberRole, error)
	countByUserFn    func(ctx context.Context, userID int64) (int64, error)
	createCalls      int
}

func (m *mockMemberStore) Create(ctx context.Context, member *model.OrganizationMember) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, member)
	}
	return nil
}

func (m *mockMemberStore) GetMatrixOwner(ctx context.Context, userID int64) (model.MemberRole, error) {
	if m.getMatrixOwnerFn != nil {
		return m.getMatrixOwnerFn(ctx, userID)
	}
	return "", store.ErrNotFound
}

func (m *mockMemberStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	if m.countByUserFn != nil {
		return m.countByUserFn(ctx, userID)
	}
	return 0, nil
}

type mockStoreProvider struct {
	users   store.UserStore
	orgs    store.OrganizationStore
	members store.MemberStore
}

func (m *mockStoreProvider) Users() store.UserStore {
	return m.users
}

func (m *mockStoreProvider) Organizations() store.OrganizationStore {
	return m.orgs
}

func (m *mockStoreProvider) Members() store.MemberStore {
	return m.members
}

type mockTxRunner struct {
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return fn(&mockStoreProvider{})
}

type mockPublisher struct {
	publishFn    func(ctx context.Context, userID, sessionID int64) error
	publishCalls int
}

func (m *mockPublisher) PublishSessionRevoked(ctx context.Context, userID, sessionID int64) error {
	m.publishCalls++
	if m.publishFn != nil {
		return m.publishFn(ctx, userID, sessionID)
	}
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}
