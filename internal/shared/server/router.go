package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-service/internal/resumes"
	"resume-service/internal/shared/auth"
	"resume-service/internal/shared/config"
	"resume-service/internal/shared/server/middleware"
	"resume-service/internal/shared/server/respond"
	"resume-service/internal/users"
)

// loginRateRule throttles login attempts per client IP.
var loginRateRule = middleware.RateLimitRule{Rate: 1, Burst: 10}

// RouterDeps carries everything the router needs to register routes.
type RouterDeps struct {
	Config         config.Config
	Tokens         *auth.Tokens
	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	loginLimit := middleware.RateLimit(middleware.NewRateLimiter(nil), loginRateRule)
	deps.UsersHandler.RegisterPublicRoutes(api, loginLimit)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(deps.Tokens))
	deps.UsersHandler.RegisterProtectedRoutes(protected)
	deps.ResumesHandler.RegisterRoutes(protected)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
