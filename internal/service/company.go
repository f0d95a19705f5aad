package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"matrixadmin.app/panel/common"
	"matrixadmin.app/panel/common/id"
	"matrixadmin.app/panel/common/logger"
	"matrixadmin.app/panel/internal/model"
	"matrixadmin.app/panel/internal/store"
)

var (
	ErrSlugTaken       = errors.New("slug taken")
	ErrInvalidSlug     = errors.New("invalid slug")
	ErrInvalidPage     = errors.New("invalid page")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrCompanyNotFound = errors.New("company not found")
)

// CreateCompanyParams carries the two wizard steps in one request: the
// company identity and the administrator account to provision for it.
type CreateCompanyParams struct {
	Name          string
	Slug          string
	AdminName     string
	AdminEmail    string
	CreatorUserID int64
}

type CompanyPage struct {
	Companies  []model.Organization
	TotalCount int64
	Page       int32
	PageSize   int32
}

type CompanyService interface {
	List(ctx context.Context, page, pageSize int32) (*CompanyPage, error)
	// SlugAvailable reports whether no organization holds the slug. The
	// answer is advisory; Create re-checks inside its transaction.
	SlugAvailable(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, params CreateCompanyParams) (*model.Organization, error)
	Delete(ctx context.Context, id int64) error
}

type companyService struct {
	orgStore store.OrganizationStore
	authz    AuthorizationService
	txRunner TxRunner
}

func NewCompanyService(
	orgStore store.OrganizationStore,
	authz AuthorizationService,
	txRunner TxRunner,
) CompanyService {
	return &companyService{
		orgStore: orgStore,
		authz:    authz,
		txRunner: txRunner,
	}
}

func (s *companyService) List(ctx context.Context, page, pageSize int32) (*CompanyPage, error) {
	if page < 0 || pageSize <= 0 {
		return nil, ErrInvalidPage
	}

	companies, err := s.orgStore.List(ctx, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}

	total, err := s.orgStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting companies: %w", err)
	}

	return &CompanyPage{
		Companies:  companies,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *companyService) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	if !common.ValidSlug(slug) {
		return false, ErrInvalidSlug
	}

	if _, err := s.orgStore.GetBySlug(ctx, slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("checking slug availability: %w", err)
	}
	return false, nil
}

func (s *companyService) Create(ctx context.Context, params CreateCompanyParams) (*model.Organization, error) {
	if params.Slug == "" {
		slug, err := common.Slugify(params.Name, "")
		if err != nil {
			return nil, ErrInvalidSlug
		}
		params.Slug = slug
	}
	if !common.ValidSlug(params.Slug) {
		return nil, ErrInvalidSlug
	}

	allowed, err := s.authz.IsMemberOfAny(ctx, params.CreatorUserID)
	if err != nil {
		return nil, fmt.Errorf("checking creator membership: %w", err)
	}
	if !allowed {
		return nil, ErrNotAuthorized
	}

	sc := logger.StartSpan(ctx, "company.create")
	defer sc.End()
	ctx = sc.Context()

	org := &model.Organization{
		ID:     id.New(),
		Name:   params.Name,
		Slug:   params.Slug,
		Type:   model.OrganizationTypeClient,
		Status: model.OrganizationStatusActive,
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		OrganizationID: logger.Ptr(org.ID),
		Slug:           logger.Ptr(org.Slug),
	})

	// The slug check, the organization row, the admin account and the owner
	// memberships commit together or not at all.
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := stores.Organizations().GetBySlug(ctx, params.Slug); err == nil {
			return ErrSlugTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("checking slug availability: %w", err)
		}

		if err := stores.Organizations().Create(ctx, org); err != nil {
			return fmt.Errorf("creating organization: %w", err)
		}

		admin := &model.User{
			ID:    id.New(),
			Name:  params.AdminName,
			Email: params.AdminEmail,
		}
		if err := stores.Users().UpsertByEmail(ctx, admin); err != nil {
			return fmt.Errorf("provisioning admin user: %w", err)
		}

		creator := &model.OrganizationMember{
			UserID:         params.CreatorUserID,
			OrganizationID: org.ID,
			Role:           model.MemberRoleOwner,
		}
		if err := stores.Members().Create(ctx, creator); err != nil {
			return fmt.Errorf("assigning creator as owner: %w", err)
		}

		// The upsert may have resolved the admin to the creator itself.
		if admin.ID != params.CreatorUserID {
			member := &model.OrganizationMember{
				UserID:         admin.ID,
				OrganizationID: org.ID,
				Role:           model.MemberRoleOwner,
			}
			if err := stores.Members().Create(ctx, member); err != nil {
				return fmt.Errorf("assigning admin as owner: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}

	slog.InfoContext(ctx, "company created", "creator_user_id", params.CreatorUserID)

	return org, nil
}

// Delete soft-deletes a company; it disappears from listings but its rows
// stay. The matrix organization itself can never be deleted here.
func (s *companyService) Delete(ctx context.Context, companyID int64) error {
	org, err := s.orgStore.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("getting company: %w", err)
	}
	if org.Type != model.OrganizationTypeClient {
		return ErrNotAuthorized
	}

	if err := s.orgStore.Delete(ctx, org.ID); err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}

	slog.InfoContext(ctx, "company deleted", "organization_id", org.ID, "slug", org.Slug)
	return nil
}
