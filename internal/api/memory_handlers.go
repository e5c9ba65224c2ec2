package api

import (
	"net/http"

	"Aria_AI/internal/models"

	"github.com/gin-gonic/gin"
)

// ListMemories handles GET /memory: all facts plus preferences.
func (h *Handler) ListMemories(c *gin.Context) {
	userID := memoryUserID(c)
	facts, err := h.memory.List(c.Request.Context(), userID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	prefs, err := h.memory.Preferences(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"facts": facts, "preferences": prefs})
}

// AddMemory handles POST /memory: a manually saved fact.
func (h *Handler) AddMemory(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.memory.Save(c.Request.Context(), memoryUserID(c), req.Content, models.SourceManual)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if id == "" {
		c.JSON(http.StatusOK, gin.H{"saved": false, "reason": "duplicate"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": true, "fact_id": id})
}

// DeleteMemory handles DELETE /memory/:id.
func (h *Handler) DeleteMemory(c *gin.Context) {
	if err := h.memory.Delete(c.Request.Context(), memoryUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ClearMemories handles DELETE /memory.
func (h *Handler) ClearMemories(c *gin.Context) {
	count, err := h.memory.ClearAll(c.Request.Context(), memoryUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": count})
}

// ListPreferences handles GET /memory/preferences.
func (h *Handler) ListPreferences(c *gin.Context) {
	prefs, err := h.memory.Preferences(c.Request.Context(), memoryUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// SetPreference handles PUT /memory/preferences.
func (h *Handler) SetPreference(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
		Value    string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.memory.SavePreference(c.Request.Context(), memoryUserID(c), req.Category, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": req.Category, "value": req.Value})
}
