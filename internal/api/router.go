// Package api exposes the HTTP surface: auth, chat, conversations,
// memory and document endpoints.
package api

import (
	"Aria_AI/internal/agent"
	"Aria_AI/internal/config"
	"Aria_AI/internal/conversation"
	"Aria_AI/internal/memory"
	"Aria_AI/internal/rag"
	"Aria_AI/internal/storage"
	"Aria_AI/internal/user"
	"Aria_AI/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	users          *user.Service
	agent          *agent.Service
	convs          *conversation.Service
	memory         *memory.Service
	ingestor       *rag.Ingestor
	blobs          storage.BlobStore
	maxUploadBytes int64
	healthChecks   map[string]HealthCheckFunc
	log            *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(users *user.Service, agentSvc *agent.Service, convs *conversation.Service, memorySvc *memory.Service, ingestor *rag.Ingestor, blobs storage.BlobStore, maxUploadBytes int64, healthChecks map[string]HealthCheckFunc, log *logger.Logger) *Handler {
	return &Handler{
		users:          users,
		agent:          agentSvc,
		convs:          convs,
		memory:         memorySvc,
		ingestor:       ingestor,
		blobs:          blobs,
		maxUploadBytes: maxUploadBytes,
		healthChecks:   healthChecks,
		log:            log,
	}
}

// SetupRouter wires all routes onto a Gin engine.
func SetupRouter(h *Handler, cfg *config.ServerConfig, jwtSecret string) *gin.Engine {
	r := gin.Default()
	r.Use(CORSMiddleware(cfg.CORSOrigins))

	r.GET("/healthz", h.Healthz)

	authMiddleware := AuthMiddleware(jwtSecret)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		users := apiV1.Group("/users")
		users.Use(authMiddleware)
		{
			users.GET("/me", h.Me)
			users.GET("/me/settings", h.GetSettings)
			users.PUT("/me/settings", h.UpdateSettings)
		}

		chat := apiV1.Group("/chat")
		chat.Use(authMiddleware)
		{
			chat.POST("", h.Chat)
			chat.POST("/stream", h.ChatStream)
		}

		apiV1.GET("/models", h.Models)

		convs := apiV1.Group("/conversations")
		convs.Use(authMiddleware)
		{
			convs.GET("", h.ListConversations)
			convs.GET("/:id", h.GetConversation)
			convs.PATCH("/:id", h.RenameConversation)
			convs.DELETE("/:id", h.DeleteConversation)
		}

		mem := apiV1.Group("/memory")
		mem.Use(authMiddleware)
		{
			mem.GET("", h.ListMemories)
			mem.POST("", h.AddMemory)
			mem.DELETE("", h.ClearMemories)
			mem.DELETE("/:id", h.DeleteMemory)
			mem.GET("/preferences", h.ListPreferences)
			mem.PUT("/preferences", h.SetPreference)
		}

		ragGroup := apiV1.Group("/rag")
		ragGroup.Use(authMiddleware)
		{
			ragGroup.POST("/upload", h.UploadDocument)
			ragGroup.GET("/documents", h.ListDocuments)
			ragGroup.DELETE("/documents/:id", h.DeleteDocument)
			ragGroup.GET("/documents/:id/download", h.DownloadDocument)
		}
	}

	return r
}
