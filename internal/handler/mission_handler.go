package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/services"
)

type MissionHandler struct {
	service services.MissionService
	stats   *services.StatsService
}

func NewMissionHandler(service services.MissionService, stats *services.StatsService) *MissionHandler {
	return &MissionHandler{service: service, stats: stats}
}

func (h *MissionHandler) Create(c *gin.Context) {
	var mission models.Mission
	if err := c.ShouldBindJSON(&mission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.service.Create(c.Request.Context(), &mission); err != nil {
		handleServiceError(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, mission)
}

func (h *MissionHandler) GetAll(c *gin.Context) {
	filter := services.MissionFilter{
		Status:        models.MissionStatus(c.Query("status")),
		ClientID:      c.Query("client_id"),
		IntervenantID: c.Query("intervenant_id"),
		Service:       models.ServiceType(c.Query("service")),
	}
	missions, err := h.service.Filter(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}

func (h *MissionHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	mission, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mission)
}

func (h *MissionHandler) Edit(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	var patch models.MissionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.service.Edit(c.Request.Context(), id, patch); err != nil {
		handleServiceError(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Mission updated"})
}

func (h *MissionHandler) UpdateBilling(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	var body struct {
		Hours      int      `json:"hours"`
		Minutes    int      `json:"minutes"`
		HourlyRate *float64 `json:"hourly_rate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.service.UpdateBilling(c.Request.Context(), id, body.Hours, body.Minutes, body.HourlyRate); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Billing updated"})
}

func (h *MissionHandler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	var body struct {
		Status models.MissionStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.service.UpdateStatus(c.Request.Context(), id, body.Status); err != nil {
		handleServiceError(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *MissionHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Mission deleted"})
}
