// Package api exposes the comment pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/logger"
	"github.com/firehallhq/cadintel/internal/parser"
	"github.com/firehallhq/cadintel/internal/reconciler"
	"github.com/firehallhq/cadintel/internal/review"
	"github.com/firehallhq/cadintel/internal/telemetry"
	"github.com/firehallhq/cadintel/internal/training"
)

// BundleStore is the bundle persistence surface the handlers need.
type BundleStore interface {
	Get(ctx context.Context, incidentID string) (*domain.CommentBundle, error)
	Save(ctx context.Context, bundle *domain.CommentBundle) error
}

// Pinger reports backend liveness for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler handles HTTP requests for the pipeline API
type Handler struct {
	parser     *parser.Parser
	bundles    BundleStore
	reviewSvc  *review.Service
	reconciler *reconciler.Reconciler
	training   *training.Service
	telemetry  *telemetry.Provider
	db         Pinger
	logger     logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	p *parser.Parser,
	bundles BundleStore,
	reviewSvc *review.Service,
	rec *reconciler.Reconciler,
	trainingSvc *training.Service,
	tel *telemetry.Provider,
	db Pinger,
	log logger.Logger,
) *Handler {
	return &Handler{
		parser:     p,
		bundles:    bundles,
		reviewSvc:  reviewSvc,
		reconciler: rec,
		training:   trainingSvc,
		telemetry:  tel,
		db:         db,
		logger:     log,
	}
}

// ParseComments handles POST /api/v1/incidents/:id/comments/parse
func (h *Handler) ParseComments(c *gin.Context) {
	incidentID := c.Param("id")

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid parse request", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	incidentDate, err := time.ParseInLocation("2006-01-02", req.IncidentDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "incident_date must be YYYY-MM-DD"})
		return
	}

	ctx, span := h.telemetry.StartSpan(c.Request.Context(), "pipeline.parse",
		attribute.String("incident.id", incidentID),
		attribute.Int("comment.count", len(req.Comments)))
	defer span.End()

	existing, err := h.bundles.Get(ctx, incidentID)
	if err != nil && !errors.Is(err, domain.ErrBundleNotFound) {
		h.serverError(c, "load bundle", err)
		return
	}

	start := time.Now()
	bundle := h.parser.Parse(ctx, incidentID, incidentDate, req.Comments, existing, req.ForceOverwrite)
	if err := h.bundles.Save(ctx, bundle); err != nil {
		h.serverError(c, "save bundle", err)
		return
	}

	h.recordParseMetrics(ctx, bundle, existing != nil, time.Since(start))
	c.JSON(http.StatusOK, h.bundleResponse(c, bundle))
}

// GetComments handles GET /api/v1/incidents/:id/comments
func (h *Handler) GetComments(c *gin.Context) {
	bundle, ok := h.loadBundle(c)
	if !ok {
		return
	}

	resp := h.bundleResponse(c, bundle)
	if c.Query("include_noise") != "true" {
		filtered := make([]domain.Comment, 0, len(resp.Comments))
		for _, cm := range resp.Comments {
			if !cm.IsNoise {
				filtered = append(filtered, cm)
			}
		}
		resp.Comments = filtered
	}
	c.JSON(http.StatusOK, resp)
}

// GetReviewQueue handles GET /api/v1/incidents/:id/review
func (h *Handler) GetReviewQueue(c *gin.Context) {
	queue, err := h.reviewSvc.Queue(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, queue)
}

// ApplyCorrections handles POST /api/v1/incidents/:id/comments/corrections
func (h *Handler) ApplyCorrections(c *gin.Context) {
	var req CorrectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	bundle, err := h.reviewSvc.ApplyCorrections(ctx, c.Param("id"), req.Corrections)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.telemetry.RecordCorrections(ctx, len(req.Corrections))
	c.JSON(http.StatusOK, h.bundleResponse(c, bundle))
}

// MapTimestamp handles POST /api/v1/incidents/:id/timestamps/:index/mapping
func (h *Handler) MapTimestamp(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "index must be an integer"})
		return
	}

	var req MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	bundle, ok := h.loadBundle(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	actor := actorFrom(c)
	switch req.Action {
	case "accept":
		err = h.reconciler.Accept(ctx, bundle, index, req.Field, actor)
	case "remap":
		if req.Field == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "remap requires a field"})
			return
		}
		err = h.reconciler.Remap(ctx, bundle, index, req.Field, actor)
	case "ignore":
		err = h.reconciler.Ignore(bundle, index, actor)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "action must be accept, remap, or ignore"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.bundles.Save(ctx, bundle); err != nil {
		h.serverError(c, "save bundle", err)
		return
	}

	h.telemetry.RecordMappingAction(ctx, req.Action)
	c.JSON(http.StatusOK, h.bundleResponse(c, bundle))
}

// MarkReviewed handles POST /api/v1/incidents/:id/comments/reviewed
func (h *Handler) MarkReviewed(c *gin.Context) {
	ctx := c.Request.Context()
	bundle, err := h.reviewSvc.MarkReviewed(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.telemetry.RecordReviewed(ctx)
	c.JSON(http.StatusOK, h.bundleResponse(c, bundle))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cadintel",
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) loadBundle(c *gin.Context) (*domain.CommentBundle, bool) {
	bundle, err := h.bundles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return bundle, true
}

func (h *Handler) bundleResponse(c *gin.Context, bundle *domain.CommentBundle) BundleResponse {
	return BundleResponse{
		IncidentID:         bundle.IncidentID,
		Status:             h.reviewStatus(c.Request.Context(), bundle),
		Comments:           bundle.Comments,
		DetectedTimestamps: bundle.DetectedTimestamps,
		UnitCrewCounts:     bundle.UnitCrewCounts,
		ParsedAt:           bundle.ParsedAt,
		ParserVersion:      bundle.ParserVersion,
		ReviewedAt:         bundle.OfficerReviewedAt,
		UnresolvedCount:    bundle.UnresolvedReviewItems(),
	}
}

// reviewStatus derives the incident's review status on the fly; it is
// never stored.
func (h *Handler) reviewStatus(ctx context.Context, bundle *domain.CommentBundle) domain.ReviewStatus {
	stats, err := h.training.Stats(ctx)
	if err != nil {
		h.logger.Warn("model stats unavailable for status", logger.Error(err))
		return domain.ComputeReviewStatus(bundle.HasSubstantiveComments(), bundle.OfficerReviewedAt, nil)
	}
	return domain.ComputeReviewStatus(bundle.HasSubstantiveComments(), bundle.OfficerReviewedAt, stats.LastTrainedAt)
}

func (h *Handler) recordParseMetrics(ctx context.Context, bundle *domain.CommentBundle, reparse bool, took time.Duration) {
	h.telemetry.RecordParse(ctx, reparse, took)
	for _, cm := range bundle.Comments {
		h.telemetry.RecordComment(ctx, string(cm.CategorySource), cm.IsNoise, cm.NeedsReview)
	}
	for _, d := range bundle.DetectedTimestamps {
		h.telemetry.RecordDetection(ctx, string(d.Confidence), d.MappedBy == domain.MappedBySystem)
	}
}

// writeError maps domain errors onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBundleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "incident has no parsed comments"})
	case domain.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRetrainInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRetrainThrottled):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCorpusTooSmall):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		h.serverError(c, "request failed", err)
	}
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		logger.String("path", c.FullPath()),
		logger.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// actorFrom identifies the officer performing a mutation. The RMS
// front end forwards its authenticated user in X-Officer-ID.
func actorFrom(c *gin.Context) string {
	if officer := c.GetHeader("X-Officer-ID"); officer != "" {
		return "officer:" + officer
	}
	return "officer:unknown"
}
