package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string

	Prospects *ProspectHandler
	Contacts  *ContactHandler
	Auth      *AuthHandler
	Sessions  SessionManager
}

// NewRouter wires middleware and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))
	r.Use(LoadSession(cfg.Sessions))

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		// Prospect Routes
		api.POST("/generate", cfg.Prospects.Generate)
		api.POST("/companies/extract", cfg.Prospects.ExtractCompanies)
		api.GET("/searches", RequireSession(), cfg.Prospects.ListSearches)

		// Contact Routes
		api.POST("/find-emails", cfg.Contacts.FindEmails)

		api.GET("/session", cfg.Auth.Session)
	}

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/linkedin/login", cfg.Auth.Login)
		authGroup.GET("/linkedin/callback", cfg.Auth.Callback)
		authGroup.POST("/logout", cfg.Auth.Logout)
	}
	return r
}
