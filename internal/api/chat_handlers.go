package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"Aria_AI/internal/models"

	"github.com/gin-gonic/gin"
)

// Chat handles POST /chat: one full turn, reply returned as JSON.
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.agent.Chat(c.Request.Context(), memoryUserID(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChatStream handles POST /chat/stream: the reply is delivered as
// server-sent events, one delta per event, with a final metadata event
// and a [DONE] terminator.
func (h *Handler) ChatStream(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	emit := func(delta string) error {
		payload, err := json.Marshal(gin.H{"delta": delta})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	resp, err := h.agent.ChatStream(c.Request.Context(), memoryUserID(c), &req, emit)
	if err != nil {
		payload, _ := json.Marshal(gin.H{"error": err.Error()})
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		flusher.Flush()
		return
	}

	final, _ := json.Marshal(gin.H{
		"done":            true,
		"conversation_id": resp.ConversationID,
		"model":           resp.Model,
		"tool_metadata":   resp.Metadata,
	})
	fmt.Fprintf(c.Writer, "data: %s\n\n", final)
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	flusher.Flush()
}

// Models handles GET /models.
func (h *Handler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.agent.Models()})
}
