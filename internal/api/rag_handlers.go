package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"Aria_AI/internal/rag"

	"github.com/gin-gonic/gin"
)

const presignExpiry = 15 * time.Minute

// UploadDocument handles POST /rag/upload (multipart form with "file"
// and optional "conversation_id").
func (h *Handler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	result, err := h.ingestor.Ingest(c.Request.Context(), data, fileHeader.Filename, memoryUserID(c), c.PostForm("conversation_id"))
	if err != nil {
		if errors.Is(err, rag.ErrNoText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListDocuments handles GET /rag/documents?conversation_id=...
func (h *Handler) ListDocuments(c *gin.Context) {
	conversationID := c.Query("conversation_id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing conversation_id"})
		return
	}

	docs, err := h.ingestor.Documents(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// DeleteDocument handles DELETE /rag/documents/:id.
func (h *Handler) DeleteDocument(c *gin.Context) {
	if err := h.ingestor.Delete(c.Request.Context(), c.Param("id"), memoryUserID(c)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// DownloadDocument handles GET /rag/documents/:id/download with a
// presigned object-store URL.
func (h *Handler) DownloadDocument(c *gin.Context) {
	ctx := c.Request.Context()
	doc, err := h.ingestor.Document(ctx, c.Param("id"), memoryUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	url, err := h.blobs.PresignedURL(ctx, doc.StorageKey, presignExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": int(presignExpiry.Seconds())})
}
