package handlers

import (
	_ "crema/docs"
	"crema/internal/logger"
	"crema/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live machine-status relay (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authMiddleware)
	{
		h.registerShotRoutes(api)
		h.registerMachineRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerShotRoutes(api *gin.RouterGroup) {
	shots := api.Group("/shots")
	{
		shots.GET("", h.listShots)
		shots.GET("/:id", h.getShot)
		// Query: ?curve=true to include the full downsampled curve
		shots.GET("/:id/analysis", h.getShotAnalysis)
	}
}

func (h *Handler) registerMachineRoutes(api *gin.RouterGroup) {
	machine := api.Group("/machine")
	{
		machine.GET("/status", h.getMachineStatus)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
