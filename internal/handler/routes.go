package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/middleware"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
)

type sessionParser interface {
	ParseSession(token string) (*models.Identity, error)
}

// Router bundles what RegisterRoutes mounts.
type Router struct {
	APIPrefix  string
	CookieName string
	Sessions   sessionParser
	Auth       *AuthHandler
	Workspace  *WorkspaceHandler
	Pages      *PageHandler
	Metrics    *MetricsHandler
	Exports    bool
	Audit      *zap.Logger
}

// RegisterRoutes mounts every console route on r.
func RegisterRoutes(r *gin.Engine, rt Router) {
	gate := middleware.Session(rt.Sessions, rt.CookieName)
	optional := middleware.OptionalSession(rt.Sessions, rt.CookieName)

	r.GET("/health", rt.Metrics.Health)
	r.GET("/ready", rt.Metrics.Ready)
	r.GET("/metrics", rt.Metrics.Prometheus)

	r.GET(middleware.AuthRoute, optional, rt.Auth.AuthForm)
	r.GET("/", rt.Pages.NotFound)
	r.GET(DashboardRoute, gate, rt.Pages.Index)
	r.GET(DashboardRoute+"/:section", gate, rt.Pages.Section)
	r.NoRoute(rt.Pages.NotFound)

	api := r.Group(rt.APIPrefix)
	auth := api.Group("/auth")
	auth.POST("/login", rt.Auth.Login)
	auth.POST("/register", rt.Auth.Register)
	auth.POST("/logout", optional, rt.Auth.Logout)

	ws := api.Group("/workspace", gate)
	ws.GET("/nav", rt.Workspace.Nav)
	if rt.Exports {
		ws.GET("/distributions/export", rt.Workspace.ExportDistributions)
	}

	screens := ws.Group("/screens")
	screens.POST("/:kind", rt.Workspace.Open)
	screens.GET("/:kind/:screenId", rt.Workspace.Get)
	screens.POST("/:kind/:screenId/reload", rt.Workspace.Reload)
	screens.PATCH("/:kind/:screenId/draft", rt.Workspace.SetField)
	screens.POST("/:kind/:screenId/form", rt.Workspace.Form)
	screens.POST("/:kind/:screenId/submit", middleware.Audit(rt.Audit, "create", "screen"), rt.Workspace.Submit)
	screens.POST("/:kind/:screenId/rows/:id/toggle", middleware.Audit(rt.Audit, "toggle_status", "distribution"), rt.Workspace.Toggle)
	screens.POST("/:kind/:screenId/rows/:id/edit", rt.Workspace.BeginEdit)
	screens.DELETE("/:kind/:screenId/edit", rt.Workspace.CancelEdit)
	screens.POST("/:kind/:screenId/save", middleware.Audit(rt.Audit, "update", "screen"), rt.Workspace.Save)
	screens.DELETE("/:kind/:screenId/notice", rt.Workspace.DismissNotice)
}
