package router

import (
	"github.com/gin-gonic/gin"
	"matrixadmin.app/panel/internal/http/handler"
)

func AuthRouter(r *gin.Engine, h *handler.AuthHandler) {
	rg := r.Group("/auth")
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
	rg.GET("/events", h.Events)
}
