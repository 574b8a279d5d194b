package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/services"
)

type IntervenantHandler struct {
	service services.IntervenantService
	stats   *services.StatsService
}

func NewIntervenantHandler(service services.IntervenantService, stats *services.StatsService) *IntervenantHandler {
	return &IntervenantHandler{service: service, stats: stats}
}

// Apply is the public application-form endpoint.
func (h *IntervenantHandler) Apply(c *gin.Context) {
	var intervenant models.Intervenant
	if err := c.ShouldBindJSON(&intervenant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := h.service.Create(c.Request.Context(), &intervenant); err != nil {
		handleServiceError(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, intervenant)
}

func (h *IntervenantHandler) GetAll(c *gin.Context) {
	intervenants, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, intervenants)
}

func (h *IntervenantHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	var intervenant models.Intervenant
	if err := c.ShouldBindJSON(&intervenant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	intervenant.ID = id
	if err := h.service.Update(c.Request.Context(), &intervenant); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Intervenant updated"})
}

func (h *IntervenantHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"message": "Intervenant deleted"})
}
