package handler_test

import (
	"context"

	"matrixadmin.app/panel/internal/events"
	"matrixadmin.app/panel/internal/model"
	"matrixadmin.app/panel/internal/service"
)

type mockCompanyService struct {
	listFn          func(ctx context.Context, page, pageSize int32) (*service.CompanyPage, error)
	slugAvailableFn func(ctx context.Context, slug string) (bool, error)
	createFn        func(ctx context.Context, params service.CreateCompanyParams) (*model.Organization, error)
	deleteFn        func(ctx context.Context, id int64) error
}

func (m *mockCompanyService) List(ctx context.Context, page, pageSize int32) (*service.CompanyPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, page, pageSize)
	}
	return &service.CompanyPage{Page: page, PageSize: pageSize}, nil
}

func (m *mockCompanyService) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	if m.slugAvailableFn != nil {
		return m.slugAvailableFn(ctx, slug)
	}
	return true, nil
}

func (m *mockCompanyService) Create(ctx context.Context, params service.CreateCompanyParams) (*model.Organization, error) {
	if m.createFn != nil {
		return m.createFn(ctx, params)
	}
	return nil, nil
}

func (m *mockCompanyService) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockAuthService struct {
	getAuthURLFn      func(state string) (string, error)
	handleCallbackFn  func(ctx context.Context, code string) (*model.User, *model.Session, error)
	validateSessionFn func(ctx context.Context, sessionID int64) (*model.User, *model.Session, error)
	logoutFn          func(ctx context.Context, sessionID int64) error
	logoutCalls       int
}

func (m *mockAuthService) GetAuthorizationURL(state string) (string, error) {
	if m.getAuthURLFn != nil {
		return m.getAuthURLFn(state)
	}
	return "https://auth.example/authorize?state=" + state, nil
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, nil, service.ErrInvalidCode
}

func (m *mockAuthService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, *model.Session, error) {
	if m.validateSessionFn != nil {
		return m.validateSessionFn(ctx, sessionID)
	}
	return nil, nil, service.ErrSessionExpired
}

func (m *mockAuthService) PurgeExpiredSessions(ctx context.Context) error {
	return nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID int64) error {
	m.logoutCalls++
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

type mockAuthzService struct {
	isMatrixOwnerFn func(ctx context.Context, userID int64) (bool, error)
	isMemberOfAnyFn func(ctx context.Context, userID int64) (bool, error)
}

func (m *mockAuthzService) IsMatrixOwner(ctx context.Context, userID int64) (bool, error) {
	if m.isMatrixOwnerFn != nil {
		return m.isMatrixOwnerFn(ctx, userID)
	}
	return false, nil
}

func (m *mockAuthzService) IsMemberOfAny(ctx context.Context, userID int64) (bool, error) {
	if m.isMemberOfAnyFn != nil {
		return m.isMemberOfAnyFn(ctx, userID)
	}
	return false, nil
}

type mockSubscriber struct {
	subscribeFn func(ctx context.Context, userID int64) (<-chan events.AuthEvent, error)
}

func (m *mockSubscriber) SubscribeUser(ctx context.Context, userID int64) (<-chan events.AuthEvent, error) {
	if m.subscribeFn != nil {
		return m.subscribeFn(ctx, userID)
	}
	ch := make(chan events.AuthEvent)
	close(ch)
	return ch, nil
}
