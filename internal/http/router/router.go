package router

import (
	"github.com/gin-gonic/gin"
	"matrixadmin.app/panel/internal/events"
	"matrixadmin.app/panel/internal/http/handler"
	"matrixadmin.app/panel/internal/http/middleware"
	"matrixadmin.app/panel/internal/service"
)

type RouterConfig struct {
	PanelURL     string
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, subscriber events.Subscriber, cfg RouterConfig) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	guard := middleware.NewGuard(services.Auth(), services.Authorization(), cfg.IsProduction)
	router.Use(guard.Handler())

	authHandler := handler.NewAuthHandler(
		services.Auth(),
		services.Authorization(),
		subscriber,
		cfg.PanelURL,
		cfg.IsProduction,
	)
	AuthRouter(router, authHandler)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/me", authHandler.Me)
		v1.GET("/me/membership", authHandler.Membership)

		companyHandler := handler.NewCompanyHandler(services.Companies())
		CompanyRouter(v1.Group("/companies"), companyHandler)
	}
}
