package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"matrixadmin.app/panel/core/config"
	"matrixadmin.app/panel/internal/model"
	"matrixadmin.app/panel/internal/service"
	"matrixadmin.app/panel/internal/store"
)

var _ = Describe("AuthService", func() {
	var (
		svc          service.AuthService
		mockUsers    *mockUserStore
		mockSessions *mockSessionStore
		publisher    *mockPublisher
		ctx          context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockUsers = &mockUserStore{}
		mockSessions = &mockSessionStore{}
		publisher = &mockPublisher{}
		svc = service.NewAuthService(mockUsers, mockSessions, publisher, config.WorkOSConfig{
			APIKey:      "sk_test",
			ClientID:    "client_123",
			RedirectURI: "http://localhost:8080/auth/callback",
		})
	})

	Describe("ValidateSession", func() {
		It("returns the user behind a live session", func() {
			mockSessions.getValidFn = func(_ context.Context, id int64) (*model.Session, error) {
				Expect(id).To(Equal(int64(42)))
				return &model.Session{ID: 42, UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}, nil
			}
			mockUsers.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
				Expect(id).To(Equal(int64(7)))
				return &model.User{ID: 7, Email: "ops@matrix.example"}, nil
			}

			user, session, err := svc.ValidateSession(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(7)))
			Expect(session.ID).To(Equal(int64(42)))
		})

		It("reports expiry for unknown or expired sessions", func() {
			_, _, err := svc.ValidateSession(ctx, 42)
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("reports a missing user distinctly", func() {
			mockSessions.getValidFn = func(_ context.Context, id int64) (*model.Session, error) {
				return &model.Session{ID: id, UserID: 7}, nil
			}
			mockUsers.getByIDFn = func(_ context.Context, _ int64) (*model.User, error) {
				return nil, store.ErrNotFound
			}

			_, _, err := svc.ValidateSession(ctx, 42)
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})
	})

	Describe("Logout", func() {
		It("deletes the session and publishes the revocation", func() {
			deleted := false
			mockSessions.getByIDFn = func(_ context.Context, id int64) (*model.Session, error) {
				return &model.Session{ID: id, UserID: 7}, nil
			}
			mockSessions.deleteFn = func(_ context.Context, id int64) error {
				Expect(id).To(Equal(int64(42)))
				deleted = true
				return nil
			}
			publisher.publishFn = func(_ context.Context, userID, sessionID int64) error {
				Expect(userID).To(Equal(int64(7)))
				Expect(sessionID).To(Equal(int64(42)))
				return nil
			}

			Expect(svc.Logout(ctx, 42)).To(Succeed())
			Expect(deleted).To(BeTrue())
			Expect(publisher.publishCalls).To(Equal(1))
		})

		It("succeeds even when publishing fails", func() {
			mockSessions.getByIDFn = func(_ context.Context, id int64) (*model.Session, error) {
				return &model.Session{ID: id, UserID: 7}, nil
			}
			publisher.publishFn = func(_ context.Context, _, _ int64) error {
				return errors.New("redis down")
			}

			Expect(svc.Logout(ctx, 42)).To(Succeed())
		})

		It("treats an already-gone session as logged out", func() {
			Expect(svc.Logout(ctx, 42)).To(Succeed())
			Expect(publisher.publishCalls).To(Equal(0))
		})
	})

	Describe("PurgeExpiredSessions", func() {
		It("sweeps expired sessions", func() {
			Expect(svc.PurgeExpiredSessions(ctx)).To(Succeed())
			Expect(mockSessions.deleteExpiredCalls).To(Equal(1))
		})

		It("wraps store failures", func() {
			mockSessions.deleteExpiredFn = func(_ context.Context) error {
				return errors.New("db down")
			}

			err := svc.PurgeExpiredSessions(ctx)
			Expect(err).To(MatchError(ContainSubstring("purging expired sessions")))
		})
	})
})
