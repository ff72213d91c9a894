package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/performance-portal-api/internal/handler"
	"github.com/noah-isme/performance-portal-api/internal/middleware"
	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/pkg/config"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	StudentHandler   *handler.StudentHandler
	SessionHandler   *handler.SessionHandler
	ReportHandler    *handler.ReportHandler
	DashboardHandler *handler.DashboardHandler
	MetricsHandler   *handler.MetricsHandler
	JWTMiddleware    gin.HandlerFunc
}

// Register wires the HTTP routes into the gin engine.
func Register(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	if deps.MetricsHandler != nil {
		r.GET("/health", deps.MetricsHandler.Health)
		r.GET("/ready", deps.MetricsHandler.Ready)
		if cfg.Metrics.Enabled {
			r.GET("/metrics", deps.MetricsHandler.Prometheus)
		}
	}
	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Use provided JWT middleware, or a rejecting one if nil
	authRequired := deps.JWTMiddleware
	if authRequired == nil {
		authRequired = middleware.RequireRoles()
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.POST("/student/login", deps.AuthHandler.StudentLogin)
		auth.POST("/admin/login", deps.AuthHandler.AdminLogin)
		auth.POST("/logout", authRequired, deps.AuthHandler.Logout)
	}

	// Student self-service
	me := api.Group("/me", authRequired, middleware.RequireRoles(models.RoleStudent))
	if deps.StudentHandler != nil {
		me.GET("", deps.StudentHandler.Me)
	}
	if deps.SessionHandler != nil {
		me.GET("/sessions", deps.SessionHandler.MyList)
		me.GET("/sessions/:sessionId", deps.SessionHandler.MyGet)
	}
	if deps.ReportHandler != nil {
		me.GET("/sessions/export.csv", deps.ReportHandler.MyHistoryCSV)
		me.GET("/sessions/:sessionId/report.pdf", deps.ReportHandler.MySessionPDF)
	}

	// Administration
	admin := api.Group("", authRequired)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	if deps.DashboardHandler != nil {
		admin.GET("/dashboard", adminOnly, deps.DashboardHandler.Admin)
	}

	students := admin.Group("/students")
	if deps.StudentHandler != nil {
		students.GET("", adminOnly, deps.StudentHandler.List)
		students.POST("", adminOnly, deps.StudentHandler.Create)
		students.GET("/:id", middleware.RBAC(string(models.RoleAdmin), middleware.RoleSelf), deps.StudentHandler.Get)
		students.PATCH("/:id", adminOnly, deps.StudentHandler.Update)
		students.DELETE("/:id", adminOnly, deps.StudentHandler.Delete)
	}

	sessions := students.Group("/:id/sessions", adminOnly)
	if deps.SessionHandler != nil {
		sessions.POST("", deps.SessionHandler.Generate)
		sessions.GET("", deps.SessionHandler.List)
		sessions.GET("/:sessionId", deps.SessionHandler.Get)
		sessions.PUT("/:sessionId/academic/:assessment/:index", deps.SessionHandler.SetAssessment)
		sessions.PATCH("/:sessionId/academic", deps.SessionHandler.UpdateAcademic)
		sessions.PATCH("/:sessionId/skills", deps.SessionHandler.UpdateSkills)
		sessions.PATCH("/:sessionId/participation", deps.SessionHandler.UpdateParticipation)
	}
	if deps.ReportHandler != nil {
		sessions.GET("/export.csv", deps.ReportHandler.HistoryCSV)
		sessions.GET("/:sessionId/report.pdf", deps.ReportHandler.SessionPDF)
	}
}
