package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"onghub/internal/domain/application"
	"onghub/internal/domain/nomenclature"
	"onghub/internal/domain/organization"
	"onghub/internal/domain/statistics"
	"onghub/internal/domain/user"
	"onghub/internal/infrastructure/http/v1/handlers"
	"onghub/internal/infrastructure/http/v1/middleware"
	"onghub/pkg/logger"
)

// Services are the domain services exposed over HTTP.
type Services struct {
	Organizations *organization.Service
	Nomenclature  *nomenclature.Service
	Applications  *application.Service
	Statistics    *statistics.Service
	Users         *user.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// DB backs the readiness probe
	DB handlers.Database

	// CORSOrigins lists the browser origins allowed to call the API
	CORSOrigins []string

	Version  string
	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, middleware.HeaderTraceID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTValidator))
	{
		base := handlers.NewBaseHandler()
		scope := OrganizationScope{
			Organizations: handlers.NewOrganizationHandler(base, cfg.Services.Organizations),
			Applications:  handlers.NewApplicationHandler(base, cfg.Services.Applications),
			Users:         handlers.NewUserHandler(base, cfg.Services.Users),
			Statistics:    handlers.NewStatisticsHandler(base, cfg.Services.Statistics),
		}

		registerOrganizationRoutes(v1, scope)
		registerNomenclatureRoutes(v1, handlers.NewNomenclatureHandler(base, cfg.Services.Nomenclature))
		registerApplicationRoutes(v1, scope.Applications)
		registerStatisticsRoutes(v1, scope.Statistics)
	}

	return router
}

// registerOrganizationRoutes registers the organization lifecycle endpoints.
func registerOrganizationRoutes(rg *gin.RouterGroup, scope OrganizationScope) {
	h := scope.Organizations

	orgs := rg.Group("/organizations")
	orgs.GET("", superAdmin, h.List)
	orgs.POST("", superAdmin, h.Create)
	orgs.POST("/validate", anyRole, h.ValidateGeneral)

	byID := orgs.Group("/:id")
	RegisterOrganizationScope(byID, middleware.RequireOrgAccess(middleware.OrganizationParam), scope)
	byID.DELETE("", superAdmin, h.Delete)
	byID.PATCH("/activate", superAdmin, h.Activate)
	byID.PATCH("/restrict", superAdmin, h.Restrict)
	byID.PATCH("/restore", superAdmin, h.Restore)
	byID.POST("/reporting-entries", superAdmin, h.CreateReportingEntries)
	byID.PATCH("/applications/:appId/restrict", superAdmin, scope.Applications.RestrictAccess)
	byID.PATCH("/applications/:appId/restore", superAdmin, scope.Applications.RestoreAccess)

	RegisterOrganizationScope(rg.Group("/organization"), middleware.OwnOrganization(middleware.OrganizationParam), scope)
}

// registerNomenclatureRoutes registers the reference list endpoints.
func registerNomenclatureRoutes(rg *gin.RouterGroup, h *handlers.NomenclatureHandler) {
	n := rg.Group("/nomenclatures", anyRole)
	{
		n.GET("/cities", h.Cities)
		n.GET("/counties", h.Counties)
		n.GET("/regions", h.Regions)
		n.GET("/domains", h.Domains)
		n.GET("/federations", h.Federations)
		n.GET("/coalitions", h.Coalitions)
	}
}

// registerApplicationRoutes registers the catalog and access request endpoints.
func registerApplicationRoutes(rg *gin.RouterGroup, h *handlers.ApplicationHandler) {
	apps := rg.Group("/applications")
	{
		apps.GET("", superAdmin, h.List)
		apps.POST("", superAdmin, h.Create)
		apps.GET("/:appId", anyRole, h.Get)
		apps.PATCH("/:appId", superAdmin, h.Update)
	}

	requests := rg.Group("/application-requests")
	{
		requests.GET("", superAdmin, h.ListRequests)
		requests.POST("", admins, h.CreateRequest)
		requests.PATCH("/:requestId/approve", superAdmin, h.Approve)
		requests.PATCH("/:requestId/reject", superAdmin, h.Reject)
	}
}

// registerStatisticsRoutes registers the hub dashboard endpoints.
func registerStatisticsRoutes(rg *gin.RouterGroup, h *handlers.StatisticsHandler) {
	stats := rg.Group("/statistics", superAdmin)
	{
		stats.GET("/hub", h.Hub)
		stats.GET("/requests", h.Requests)
		stats.GET("/statuses", h.Statuses)
	}
}
