package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/transport/http/handlers"
	"github.com/moontonsl/communityheroesph-sub001/internal/transport/http/middleware"
	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// ServiceSet bundles the application services exposed over HTTP.
type ServiceSet struct {
	Auth        *usecase.AuthService
	Users       *usecase.UserService
	Roles       *usecase.RoleService
	Locations   *usecase.LocationService
	Submissions *usecase.SubmissionService
	Events      *usecase.EventService
	Reportings  *usecase.ReportingService
}

// DatabaseChecker reports database connectivity for the readiness probe.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker reports cache connectivity for the readiness probe.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies carries everything the router needs.
type Dependencies struct {
	Logger         *zap.Logger
	Services       ServiceSet
	Database       DatabaseChecker
	Cache          CacheChecker
	Metrics        *middleware.HTTPMetrics
	AllowedOrigins []string
}

// Register builds the Gin engine with all middleware and routes installed.
func Register(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	if deps.Logger != nil {
		r.Use(middleware.Logger(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	if len(deps.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.AllowedOrigins))
	}

	healthOpts := []handlers.HealthOption{}
	if deps.Database != nil {
		healthOpts = append(healthOpts, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOpts = append(healthOpts, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	health := handlers.NewHealthHandler(healthOpts...)
	r.GET("/healthz", health.Status)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth)
	usersHandler := handlers.NewUsersHandler(deps.Services.Users)
	rolesHandler := handlers.NewRolesHandler(deps.Services.Roles)
	locationsHandler := handlers.NewLocationsHandler(deps.Services.Locations)
	submissionsHandler := handlers.NewSubmissionsHandler(deps.Services.Submissions)
	eventsHandler := handlers.NewEventsHandler(deps.Services.Events)
	reportingsHandler := handlers.NewReportingsHandler(deps.Services.Reportings)

	requireAuth := middleware.RequireAuth(deps.Services.Auth)
	adminOnly := middleware.RequireRole(usecase.AllowedSlugs(usecase.OpSubmissionApprove)...)

	api := r.Group("/api/v1")

	// Public surface: login, the registration form's reference data, and the
	// registration itself.
	api.POST("/auth/login", authHandler.Login)

	locations := api.Group("/locations")
	{
		locations.GET("/regions", locationsHandler.Regions)
		locations.GET("/provinces", locationsHandler.Provinces)
		locations.GET("/municipalities", locationsHandler.Municipalities)
		locations.GET("/barangays", locationsHandler.Barangays)
	}

	api.POST("/submissions", submissionsHandler.Register)

	// Everything below requires an authenticated actor. Per-operation role
	// gates mirror the service-level allow-lists.
	authed := api.Group("")
	authed.Use(requireAuth)

	submissions := authed.Group("/submissions")
	{
		submissions.GET("", adminOnly, submissionsHandler.List)
		submissions.GET("/:id", adminOnly, submissionsHandler.Get)
		submissions.POST("/:id/approve",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpSubmissionApprove)...),
			submissionsHandler.Approve)
		submissions.POST("/:id/reject",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpSubmissionReject)...),
			submissionsHandler.Reject)
		submissions.POST("/:id/under-review",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpSubmissionReview)...),
			submissionsHandler.MarkUnderReview)
	}

	events := authed.Group("/events")
	{
		events.POST("",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpEventApply)...),
			eventsHandler.Apply)
		events.GET("", eventsHandler.List)
		events.GET("/:id", eventsHandler.Get)
		events.POST("/:id/approve",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpEventApprove)...),
			eventsHandler.Approve)
		events.POST("/:id/reject",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpEventReject)...),
			eventsHandler.Reject)
		events.POST("/:id/complete",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpEventComplete)...),
			eventsHandler.Complete)
		events.POST("/:id/cancel",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpEventCancel)...),
			eventsHandler.Cancel)
	}

	reports := authed.Group("/reports")
	{
		reports.POST("",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportCreate)...),
			reportingsHandler.Create)
		reports.GET("", reportingsHandler.List)
		reports.GET("/:id", reportingsHandler.Get)
		reports.POST("/:id/submit",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportSubmit)...),
			reportingsHandler.Submit)
		reports.POST("/:id/pre-approve",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportPreApprove)...),
			reportingsHandler.PreApprove)
		reports.POST("/:id/review",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportReview)...),
			reportingsHandler.Review)
		reports.POST("/:id/approve",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportApprove)...),
			reportingsHandler.Approve)
		reports.POST("/:id/first-clearance",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportFirstClearance)...),
			reportingsHandler.FirstClearance)
		reports.POST("/:id/final-clearance",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportFinalClearance)...),
			reportingsHandler.FinalClearance)
		reports.PUT("/:id/financials",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportUpdateFinancial)...),
			reportingsHandler.UpdateFinancials)
		reports.PUT("/:id/document",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportCreate)...),
			reportingsHandler.ReplaceDocument)
		reports.DELETE("/:id",
			middleware.RequireRole(usecase.AllowedSlugs(usecase.OpReportCreate)...),
			reportingsHandler.Delete)
	}

	admin := authed.Group("")
	admin.Use(adminOnly)
	{
		admin.GET("/users", usersHandler.List)
		admin.GET("/users/:id", usersHandler.Get)
		admin.POST("/users", usersHandler.Create)
		admin.POST("/users/:id/deactivate", usersHandler.Deactivate)

		admin.GET("/roles", rolesHandler.List)
		admin.GET("/roles/:id", rolesHandler.Get)
		admin.POST("/roles", rolesHandler.Create)
		admin.PUT("/roles/:id", rolesHandler.Update)
		admin.DELETE("/roles/:id", rolesHandler.Delete)
	}

	return r
}
