package handler

import (
	"ethereal/backend/internal/api/middleware"
	"ethereal/backend/internal/config"

	"github.com/gin-gonic/gin"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Limiter        middleware.Limiter
	TrackRateLimit int
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(h.Logger))
	r.SetHTMLTemplate(h.Templates)

	if opts.Limiter == nil {
		opts.Limiter = middleware.NewInMemoryLimiter(config.TrackRateWindow)
	}
	if opts.TrackRateLimit <= 0 {
		opts.TrackRateLimit = config.DefaultTrackRateLimit
	}

	requireAuth := middleware.Authenticate(h.Auth)
	optionalAuth := middleware.OptionalAuth(h.Auth)
	r.Use(optionalAuth, middleware.RequestLogger(h.Logger))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/signin", h.SignIn)
		authGroup.POST("/signout", requireAuth, h.SignOut)
		authGroup.POST("/refresh", requireAuth, h.Refresh)
		authGroup.GET("/session", requireAuth, h.Session)
		authGroup.PATCH("/user", requireAuth, h.UpdateUser)

		api.GET("/departments", h.ListDepartments)
		api.GET("/complaints/track/:id", middleware.RateLimit(opts.Limiter, "track", opts.TrackRateLimit, func(c *gin.Context) string {
			return h.message(c, "rate_limited")
		}), h.TrackComplaint)
		api.POST("/complaints", requireAuth, h.SubmitComplaint)
		api.POST("/complaints/:id/feedback", requireAuth, h.SubmitFeedback)
		api.GET("/dashboard/student", requireAuth, h.StudentDashboard)

		admin := api.Group("", requireAuth, middleware.RequireElevated())
		admin.GET("/dashboard/admin", h.AdminDashboard)
		admin.POST("/admin/complaints/:id/status", h.UpdateStatus)
		admin.POST("/admin/users", h.CreateAdmin)
	}

	r.GET("/ws/auth", requireAuth, func(c *gin.Context) {
		if upgradeRequired(c) {
			return
		}
		h.ServeWebSocket(c)
	})

	r.GET(config.RouteHome, h.HomePage)
	r.GET(config.RouteSubmit, h.SubmitPage)
	r.GET(config.RouteTrack, h.TrackPage)
	r.GET(config.RouteAuth, h.AuthPage)
	r.GET(config.RouteStudentDashboard, h.StudentDashboardPage)
	r.GET(config.RouteAdminDashboard, h.AdminDashboardPage)
	r.NoRoute(h.NotFound)

	return r
}
