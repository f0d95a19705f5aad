package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"matrixadmin.app/panel/internal/http/dto"
	"matrixadmin.app/panel/internal/http/middleware"
	"matrixadmin.app/panel/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	uniqueViolationCode = "23505"
)

type CompanyHandler struct {
	companyService service.CompanyService
}

func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

func (h *CompanyHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := parseInt32Query(c, "page", 0)
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	pageSize, err := parseInt32Query(c, "page_size", defaultPageSize)
	if err != nil || pageSize <= 0 || pageSize > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page size"})
		return
	}

	result, err := h.companyService.List(ctx, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		slog.ErrorContext(ctx, "failed to list companies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list companies"})
		return
	}

	resp := dto.CompanyListResponse{
		Companies:  make([]dto.CompanyResponse, 0, len(result.Companies)),
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
	}
	for i := range result.Companies {
		resp.Companies = append(resp.Companies, *dto.ToCompanyResponse(&result.Companies[i]))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CompanyHandler) SlugAvailable(c *gin.Context) {
	ctx := c.Request.Context()

	slug := c.Query("slug")
	available, err := h.companyService.SlugAvailable(ctx, slug)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
			return
		}
		slog.ErrorContext(ctx, "failed to check slug", "error", err, "slug", slug)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check slug"})
		return
	}

	c.JSON(http.StatusOK, dto.SlugAvailableResponse{Slug: slug, Available: available})
}

// Create answers domain rejections with 200 and Success false, so the wizard
// can keep its state and show the message inline. Only infrastructure
// failures produce a non-2xx status.
func (h *CompanyHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.companyService.Create(ctx, service.CreateCompanyParams{
		Name:          req.Name,
		Slug:          req.Slug,
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		CreatorUserID: user.ID,
	})
	if err != nil {
		if msg, ok := domainRejection(err); ok {
			c.JSON(http.StatusOK, dto.CreateCompanyResponse{Success: false, Error: msg})
			return
		}
		slog.ErrorContext(ctx, "failed to create company", "error", err, "slug", req.Slug)
		c.JSON(http.StatusInternalServerError, dto.CreateCompanyResponse{Success: false, Error: "failed to create company"})
		return
	}

	c.JSON(http.StatusOK, dto.CreateCompanyResponse{
		Success: true,
		Company: dto.ToCompanyResponse(org),
	})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	if err := h.companyService.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		case errors.Is(err, service.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete this organization"})
		default:
			slog.ErrorContext(ctx, "failed to delete company", "error", err, "company_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete company"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func domainRejection(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrSlugTaken):
		return "slug is already taken", true
	case errors.Is(err, service.ErrInvalidSlug):
		return "slug is invalid", true
	case errors.Is(err, service.ErrNotAuthorized):
		return "not authorized to create companies", true
	}

	// A unique violation that raced past the in-transaction check is the
	// same rejection as a taken slug.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return "slug is already taken", true
	}

	return "", false
}

func parseInt32Query(c *gin.Context, name string, fallback int32) (int32, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
