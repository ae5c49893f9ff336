package app

import (
	"strings"

	"learnhub_portal/internal/config"
	"learnhub_portal/internal/middleware"
	"learnhub_portal/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// everything below knows its browser client
	client := api.Group("")
	client.Use(middleware.ClientMiddleware(func() middleware.ClientOptions {
		return middleware.ClientOptions{
			Secret:     cfg.Session.Secret,
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
		}
	}))
	{
		a.registerAuthRoutes(client, c)

		client.GET("/state", c.app.GetState)
		client.POST("/language", c.app.ToggleLanguage)
		client.GET("/events", c.event.HandleWS)

		signedIn := client.Group("")
		signedIn.Use(middleware.RequireSignedIn(s.app))
		{
			signedIn.POST("/navigate", c.app.Navigate)
			signedIn.GET("/screen", c.app.GetScreen)
			signedIn.GET("/courses/:id", c.app.GetCourse)
		}
	}

	if cfg.Storage.Content == config.ContentLocal && strings.HasPrefix(cfg.Storage.LocalBaseURL, "/") {
		router.Static(cfg.Storage.LocalBaseURL, "content")
	}
}

func (a *App) registerAuthRoutes(group *gin.RouterGroup, c *controllers) {
	auth := group.Group("/auth")
	{
		auth.POST("/login", c.auth.Login)
		auth.POST("/register", c.auth.Register)
		auth.POST("/logout", c.auth.Logout)
		auth.POST("/view", c.auth.ShowAuthView)
		auth.GET("/google", c.auth.GoogleLogin)
		auth.GET("/google/callback", c.auth.GoogleCallback)
	}
}
