package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/services"
)

type ArchiveHandler struct {
	archive      *services.ArchiveService
	intervenants services.IntervenantService
}

func NewArchiveHandler(archive *services.ArchiveService, intervenants services.IntervenantService) *ArchiveHandler {
	return &ArchiveHandler{archive: archive, intervenants: intervenants}
}

// Archive runs the monthly archival. The outcome is always reported as an
// ArchiveResult; a failed run answers 502 with the result attached.
func (h *ArchiveHandler) Archive(c *gin.Context) {
	var body struct {
		Year  int `json:"year" binding:"required"`
		Month int `json:"month" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Month < 1 || body.Month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month (1-12) are required"})
		return
	}

	result := h.archive.ArchiveMonth(c.Request.Context(), body.Year, time.Month(body.Month))
	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ArchiveHandler) GetArchived(c *gin.Context) {
	filter, err := parseArchiveFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	missions, err := h.archive.GetArchived(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}

// Report aggregates archived missions matching the filter into the
// analytics view.
func (h *ArchiveHandler) Report(c *gin.Context) {
	filter, err := parseArchiveFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	missions, err := h.archive.GetArchived(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	intervenants, err := h.intervenants.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.BuildReport(missions, intervenants))
}

func parseArchiveFilter(c *gin.Context) (models.ArchiveFilter, error) {
	filter := models.ArchiveFilter{
		ClientID:      c.Query("client_id"),
		IntervenantID: c.Query("intervenant_id"),
		Service:       models.ServiceType(c.Query("service")),
		PaymentMethod: models.PaymentMethod(c.Query("payment_method")),
	}

	if year := c.Query("year"); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			return filter, err
		}
		filter.Year = parsed
	}
	if month := c.Query("month"); month != "" {
		parsed, err := strconv.Atoi(month)
		if err != nil {
			return filter, err
		}
		filter.Month = time.Month(parsed)
	}
	if from := c.Query("date_from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = parsed
	}
	if to := c.Query("date_to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, err
		}
		filter.DateTo = parsed
	}

	return filter, nil
}
