package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/middleware"
)

// RouterConfig carries everything the HTTP surface is built from
type RouterConfig struct {
	Logger         *logrus.Logger
	Auth           *middleware.AuthMiddleware
	AuthHandler    *AuthHandler
	Tenants        *TenantHandler
	Users          *UserHandler
	Projects       *ProjectHandler
	Tasks          *TaskHandler
	Audit          *AuditHandler
	Health         *HealthHandler
	AllowedOrigins []string
	StoreTimeout   time.Duration
}

// NewRouter builds the gin engine with the middleware chain and every API route
func NewRouter(cfg RouterConfig) *gin.Engine {
	SetLogger(cfg.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestMeta())
	router.Use(middleware.Timeout(cfg.StoreTimeout))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/ready", cfg.Health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/health", cfg.Health.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.GET("/me", cfg.Auth.Authenticate(), cfg.AuthHandler.Me)
		auth.POST("/logout", cfg.Auth.Authenticate(), cfg.AuthHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(cfg.Auth.Authenticate())

	tenants := protected.Group("/tenants", middleware.SuperAdminOnly())
	{
		tenants.GET("", cfg.Tenants.ListTenants)
		tenants.GET("/:id", cfg.Tenants.GetTenant)
		tenants.PUT("/:id", cfg.Tenants.UpdateTenant)
	}

	users := protected.Group("/users")
	{
		users.GET("", cfg.Users.ListUsers)
		users.GET("/:id", cfg.Users.GetUser)
		users.POST("", cfg.Users.CreateUser)
		users.PUT("/:id", middleware.AdminOnly(), cfg.Users.UpdateUser)
		users.DELETE("/:id", middleware.AdminOnly(), cfg.Users.DeleteUser)
	}

	projects := protected.Group("/projects")
	{
		projects.POST("", cfg.Projects.CreateProject)
		projects.GET("", cfg.Projects.ListProjects)
		projects.GET("/:id", cfg.Projects.GetProject)
		projects.PUT("/:id", cfg.Projects.UpdateProject)
		projects.DELETE("/:id", cfg.Projects.DeleteProject)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.POST("", cfg.Tasks.CreateTask)
		tasks.GET("", cfg.Tasks.ListTasks)
		tasks.GET("/project/:projectId", cfg.Tasks.ListProjectTasks)
		tasks.GET("/:id", cfg.Tasks.GetTask)
		tasks.PUT("/:id", cfg.Tasks.UpdateTask)
		tasks.PATCH("/:id/status", cfg.Tasks.UpdateTaskStatus)
		tasks.DELETE("/:id", cfg.Tasks.DeleteTask)
	}

	protected.GET("/audit-logs", middleware.AdminOnly(), cfg.Audit.ListAuditLogs)

	return router
}
