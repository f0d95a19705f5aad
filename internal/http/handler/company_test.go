package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"matrixadmin.app/panel/internal/http/handler"
	"matrixadmin.app/panel/internal/http/middleware"
	"matrixadmin.app/panel/internal/model"
	"matrixadmin.app/panel/internal/service"
)

var _ = Describe("CompanyHandler", func() {
	var (
		router *gin.Engine
		svc    *mockCompanyService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(func(c *gin.Context) {
			middleware.SetCurrentUser(c, &model.User{ID: 99, Email: "ops@matrix.example"})
		})
		svc = &mockCompanyService{}
		h := handler.NewCompanyHandler(svc)
		router.GET("/companies", h.List)
		router.GET("/companies/slug-available", h.SlugAvailable)
		router.POST("/companies", h.Create)
		router.DELETE("/companies/:id", h.Delete)
	})

	Describe("List", func() {
		It("returns the requested page with the total count", func() {
			svc.listFn = func(_ context.Context, page, pageSize int32) (*service.CompanyPage, error) {
				Expect(page).To(Equal(int32(2)))
				Expect(pageSize).To(Equal(int32(10)))
				return &service.CompanyPage{
					Companies:  []model.Organization{{ID: 1, Name: "Acme", Slug: "acme"}},
					TotalCount: 21,
					Page:       page,
					PageSize:   pageSize,
				}, nil
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies?page=2&page_size=10", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["total_count"]).To(Equal(float64(21)))
			Expect(resp["companies"]).To(HaveLen(1))
		})

		It("defaults page and page size when absent", func() {
			svc.listFn = func(_ context.Context, page, pageSize int32) (*service.CompanyPage, error) {
				Expect(page).To(Equal(int32(0)))
				Expect(pageSize).To(Equal(int32(20)))
				return &service.CompanyPage{Page: page, PageSize: pageSize}, nil
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("rejects a negative page", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies?page=-1", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an oversized page size", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies?page_size=1000", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 on service failure", func() {
			svc.listFn = func(_ context.Context, _, _ int32) (*service.CompanyPage, error) {
				return nil, errors.New("db down")
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("SlugAvailable", func() {
		It("reports availability", func() {
			svc.slugAvailableFn = func(_ context.Context, slug string) (bool, error) {
				Expect(slug).To(Equal("acme"))
				return false, nil
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies/slug-available?slug=acme", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["available"]).To(BeFalse())
		})

		It("rejects malformed slugs", func() {
			svc.slugAvailableFn = func(_ context.Context, _ string) (bool, error) {
				return false, service.ErrInvalidSlug
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/companies/slug-available?slug=Not%20Valid", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Create", func() {
		validBody := func() *bytes.Buffer {
			body, _ := json.Marshal(map[string]string{
				"name":        "Acme Corp",
				"slug":        "acme-corp",
				"admin_name":  "Ada Lovelace",
				"admin_email": "ada@acme.example",
			})
			return bytes.NewBuffer(body)
		}

		post := func(body *bytes.Buffer) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/companies", body)
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			return w
		}

		It("answers success true with the created company", func() {
			svc.createFn = func(_ context.Context, params service.CreateCompanyParams) (*model.Organization, error) {
				Expect(params.CreatorUserID).To(Equal(int64(99)))
				Expect(params.Slug).To(Equal("acme-corp"))
				return &model.Organization{ID: 1, Name: params.Name, Slug: params.Slug}, nil
			}

			w := post(validBody())

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeTrue())
			Expect(resp["company"]).NotTo(BeNil())
		})

		It("answers 200 with success false when the slug is taken", func() {
			svc.createFn = func(_ context.Context, _ service.CreateCompanyParams) (*model.Organization, error) {
				return nil, service.ErrSlugTaken
			}

			w := post(validBody())

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeFalse())
			Expect(resp["error"]).To(ContainSubstring("taken"))
		})

		It("maps a raced unique violation to the same rejection", func() {
			svc.createFn = func(_ context.Context, _ service.CreateCompanyParams) (*model.Organization, error) {
				return nil, &pgconn.PgError{Code: "23505"}
			}

			w := post(validBody())

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeFalse())
			Expect(resp["error"]).To(ContainSubstring("taken"))
		})

		It("answers 200 with success false for unauthorized creators", func() {
			svc.createFn = func(_ context.Context, _ service.CreateCompanyParams) (*model.Organization, error) {
				return nil, service.ErrNotAuthorized
			}

			w := post(validBody())

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeFalse())
		})

		It("returns 500 with success false on infrastructure failure", func() {
			svc.createFn = func(_ context.Context, _ service.CreateCompanyParams) (*model.Organization, error) {
				return nil, errors.New("db down")
			}

			w := post(validBody())

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeFalse())
		})

		It("rejects an invalid body", func() {
			w := post(bytes.NewBufferString(`{"name":"Acme"}`))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("accepts a body without a slug and lets the server derive one", func() {
			svc.createFn = func(_ context.Context, params service.CreateCompanyParams) (*model.Organization, error) {
				Expect(params.Slug).To(BeEmpty())
				return &model.Organization{ID: 1, Name: params.Name, Slug: "acme"}, nil
			}

			w := post(bytes.NewBufferString(`{"name":"Acme","admin_name":"Ada","admin_email":"ada@acme.example"}`))
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("Delete", func() {
		It("answers 204 on success", func() {
			svc.deleteFn = func(_ context.Context, id int64) error {
				Expect(id).To(Equal(int64(5)))
				return nil
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/companies/5", nil)
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("answers 404 for an unknown company", func() {
			svc.deleteFn = func(_ context.Context, _ int64) error {
				return service.ErrCompanyNotFound
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/companies/5", nil)
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects a non-numeric id", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/companies/acme", nil)
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
