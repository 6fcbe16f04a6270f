package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firehallhq/cadintel/internal/domain"
)

// GetModelStats handles GET /api/v1/model/stats
func (h *Handler) GetModelStats(c *gin.Context) {
	stats, err := h.training.Stats(c.Request.Context())
	if err != nil {
		h.serverError(c, "load model stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Retrain handles POST /api/v1/model/retrain
func (h *Handler) Retrain(c *gin.Context) {
	var req RetrainRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	stats, err := h.training.Retrain(ctx, domain.TriggerManual, req.Force)
	h.telemetry.RecordRetrain(ctx, domain.TriggerManual, err, stats.CVAccuracy, stats.TotalTrainingExamples)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetFields handles GET /api/v1/fields
func (h *Handler) GetFields(c *gin.Context) {
	c.JSON(http.StatusOK, FieldCatalogResponse{
		Version: domain.FieldCatalogVersion,
		Groups:  domain.FieldCatalog,
	})
}
