package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListConversations handles GET /conversations with optional
// skip/limit pagination.
func (h *Handler) ListConversations(c *gin.Context) {
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	summaries, err := h.convs.List(c.Request.Context(), memoryUserID(c), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// GetConversation handles GET /conversations/:id with the full message
// history.
func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.convs.Get(c.Request.Context(), c.Param("id"), memoryUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// RenameConversation handles PATCH /conversations/:id.
func (h *Handler) RenameConversation(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.convs.Rename(c.Request.Context(), c.Param("id"), memoryUserID(c), req.Title); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": req.Title})
}

// DeleteConversation handles DELETE /conversations/:id, cascading to
// the conversation's documents.
func (h *Handler) DeleteConversation(c *gin.Context) {
	ctx := c.Request.Context()
	conversationID := c.Param("id")

	if err := h.convs.Delete(ctx, conversationID, memoryUserID(c)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := h.ingestor.DeleteConversation(ctx, conversationID); err != nil {
		h.log.Warn(fmt.Sprintf("failed to clean documents of conversation %s: %v", conversationID, err))
	}

	c.JSON(http.StatusOK, gin.H{"deleted": conversationID})
}
