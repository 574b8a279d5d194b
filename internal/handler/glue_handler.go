package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pantoufles-app/internal/config"
	"pantoufles-app/internal/utils"
)

// GlueHandler hosts the thin proxy endpoints: the chat assistant, the maps
// key hand-off and the health probe.
type GlueHandler struct {
	chat *utils.ChatClient
	maps config.MapsConfig
}

func NewGlueHandler(chat *utils.ChatClient, maps config.MapsConfig) *GlueHandler {
	return &GlueHandler{chat: chat, maps: maps}
}

func (h *GlueHandler) Chat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.chat.Send(c.Request.Context(), body.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to reach the chat assistant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reply": reply})
}

func (h *GlueHandler) MapsKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "mapsKey": h.maps.APIKey})
}

func (h *GlueHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "PANTOUFLES backend OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
