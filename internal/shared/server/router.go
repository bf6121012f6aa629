package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"career-backend/internal/admin"
	googleauth "career-backend/internal/auth"
	"career-backend/internal/catalog"
	"career-backend/internal/guidance"
	"career-backend/internal/notifications"
	"career-backend/internal/planning"
	"career-backend/internal/profiles"
	"career-backend/internal/services/health"
	"career-backend/internal/shared/config"
	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
)

// RouterDeps are the handlers mounted under /api. Nil handlers are skipped.
type RouterDeps struct {
	Config        config.Config
	Health        *health.Service
	Catalog       *catalog.Handler
	Profiles      *profiles.Handler
	Guidance      *guidance.Handler
	Notifications *notifications.Handler
	Planning      *planning.Handler
	Admin         *admin.Handler
	Google        *googleauth.GoogleService
	Limiter       *middleware.RateLimiter
}

// generationRoutes are the routes that may call the generation service.
var generationRoutes = map[string]bool{
	http.MethodGet + " /api/career/recommendations/:user_id": true,
	http.MethodGet + " /api/career/recommendations":          true,
	http.MethodGet + " /api/skills/analysis/:user_id":        true,
	http.MethodGet + " /api/job-market/analysis":             true,
	http.MethodPost + " /api/chatbot/message":                true,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rules := map[string]middleware.RateLimitRule{}
	rules["DEFAULT"] = middleware.RateLimitRule{Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst}
	rules[middleware.GenerationRateLimitGroup] = middleware.RateLimitRule{
		Rate:  deps.Config.RateLimitGenerationRPS,
		Burst: deps.Config.RateLimitGenerationBurst,
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:  deps.Limiter,
			GroupFor: rateLimitGroup,
			Rules:    rules,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	api := r.Group("/api")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.Google != nil {
		deps.Google.RegisterRoutes(api)
	}
	if deps.Catalog != nil {
		deps.Catalog.RegisterRoutes(api)
	}
	if deps.Guidance != nil {
		deps.Guidance.RegisterRoutes(api)
	}
	users := api.Group("", middleware.RequireUser())
	if deps.Profiles != nil {
		deps.Profiles.RegisterRoutes(users)
	}
	if deps.Notifications != nil {
		deps.Notifications.RegisterRoutes(users)
	}
	if deps.Planning != nil {
		deps.Planning.RegisterRoutes(users)
	}
	if deps.Admin != nil {
		deps.Admin.RegisterRoutes(api.Group("", middleware.RequireUser(), middleware.RequireAdmin()))
	}
	return r
}

func rateLimitGroup(c *gin.Context) string {
	if generationRoutes[c.Request.Method+" "+c.FullPath()] {
		return middleware.GenerationRateLimitGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
