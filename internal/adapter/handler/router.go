package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	webhookHandler *ZoomWebhook
	meetingHandler *Meeting
	promptHandler  *Prompt
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *ZoomWebhook, meetingHandler *Meeting, promptHandler *Prompt) *Router {
	return &Router{
		cfg:            cfg,
		webhookHandler: webhookHandler,
		meetingHandler: meetingHandler,
		promptHandler:  promptHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupWebhookRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupPromptRoutes(v1)
}

// setupWebhookRoutes configures inbound webhook routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhookGroup := g.Group("/webhooks")
	webhookGroup.POST("/zoom", rt.webhookHandler.Handle)
}

// setupMeetingRoutes configures meeting read and reprocess routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")
	meetingGroup.GET("", rt.meetingHandler.List)
	meetingGroup.GET("/:id", rt.meetingHandler.Get)
	meetingGroup.POST("/:id/reprocess", rt.meetingHandler.Reprocess)
}

// setupPromptRoutes configures prompt template management routes
func (rt *Router) setupPromptRoutes(g *echo.Group) {
	promptGroup := g.Group("/prompts")
	promptGroup.POST("", rt.promptHandler.Create)
	promptGroup.GET("", rt.promptHandler.List)
	promptGroup.GET("/:id", rt.promptHandler.Get)
	promptGroup.PUT("/:id", rt.promptHandler.Update)
	promptGroup.DELETE("/:id", rt.promptHandler.Delete)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
