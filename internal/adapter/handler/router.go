package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-digest/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg         *config.Config
	pipeline    *Pipeline
	meetings    *Meeting
	transcripts *Transcript
	webhook     *StoreWebhook
}

// NewRouter creates a new router with all handlers. webhook may be nil.
func NewRouter(cfg *config.Config, pipeline *Pipeline, meetings *Meeting, transcripts *Transcript, webhook *StoreWebhook) *Router {
	return &Router{
		cfg:         cfg,
		pipeline:    pipeline,
		meetings:    meetings,
		transcripts: transcripts,
		webhook:     webhook,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupPipelineRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

func (rt *Router) setupPipelineRoutes(g *echo.Group) {
	pipeline := g.Group("/pipeline")
	pipeline.POST("/run", rt.pipeline.Run)
	pipeline.GET("/status", rt.pipeline.Status)
	pipeline.POST("/reset", rt.pipeline.Reset)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	g.POST("/transcripts", rt.transcripts.Create)
	g.GET("/meetings", rt.meetings.List)
	g.GET("/meetings/:id", rt.meetings.Get)
}

// setupWebhookRoutes registers the store webhook only when a secret is configured
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks")
	if rt.webhook != nil {
		webhooks.POST("/store-changes", rt.webhook.HandleStoreChange)
	} else {
		webhooks.POST("/store-changes", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not configured",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	body := map[string]interface{}{
		"status":      "ok",
		"environment": env,
	}
	if rt.pipeline != nil {
		status := rt.pipeline.controller.Status()
		body["pipeline"] = map[string]interface{}{
			"state":        status.State,
			"auto_enabled": status.AutoEnabled,
			"circuit_open": status.CircuitOpen,
		}
	}
	return c.JSON(http.StatusOK, body)
}
