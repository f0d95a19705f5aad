package router

import (
	"github.com/gin-gonic/gin"
	"matrixadmin.app/panel/internal/http/handler"
)

func CompanyRouter(rg *gin.RouterGroup, h *handler.CompanyHandler) {
	rg.GET("", h.List)
	rg.GET("/slug-available", h.SlugAvailable)
	rg.POST("", h.Create)
	rg.DELETE("/:id", h.Delete)
}
