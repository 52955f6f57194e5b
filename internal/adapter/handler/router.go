package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/essence-team/essence-backend/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	summaryHandler *Summary
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, summaryHandler *Summary) *Router {
	return &Router{
		cfg:            cfg,
		summaryHandler: summaryHandler,
	}
}

// Setup configures all application routes. The summarization endpoints live
// at the root, matching the paths browser extension clients already call.
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	e.GET("/", rt.summaryHandler.Home)
	e.POST("/summarize", rt.summaryHandler.Summarize)
	e.POST("/inference", rt.summaryHandler.Inference)
	e.POST("/stream", rt.summaryHandler.Stream)

	admin := e.Group("/admin")
	admin.GET("/summaries", rt.summaryHandler.List)
	admin.DELETE("/summaries/:id", rt.summaryHandler.Delete)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
