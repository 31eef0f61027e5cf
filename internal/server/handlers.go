package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/export"
	"github.com/kapu/segcraft-go/internal/service/generation"
	"github.com/kapu/segcraft-go/internal/service/history"
)

type Handler struct {
	service *generation.Service
	// history is nil when Redis is disabled.
	history history.Reader
	timeout time.Duration
	logger  *zap.Logger
}

func NewHandler(service *generation.Service, reader history.Reader, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		history: reader,
		timeout: timeout,
		logger:  logger,
	}
}

// GET /healthcheck
func (h *Handler) HealthCheck(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}

// GET /api/segments
func (h *Handler) ListSegments(c *gin.Context) {
	RespondOK(c, gin.H{"segments": h.service.Catalog().Segments()})
}

// GET /api/formats
func (h *Handler) ListFormats(c *gin.Context) {
	RespondOK(c, gin.H{"formats": h.service.Catalog().Formats()})
}

// GET /api/constraints
func (h *Handler) ListConstraints(c *gin.Context) {
	RespondOK(c, gin.H{"constraints": h.service.Catalog().Constraints()})
}

// GET /api/samples/:n
func (h *Handler) GetSample(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		RespondError(c, http.StatusNotFound, codeNotFound, fmt.Errorf("unknown sample %q", c.Param("n")))
		return
	}
	fields, err := h.service.Catalog().SampleInput(n)
	if err != nil {
		RespondError(c, http.StatusNotFound, codeNotFound, err)
		return
	}
	params, err := generation.ParamsFromSample(fields)
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, gin.H{"fields": fields, "params": params})
}

type generateBody struct {
	generation.RequestParams
	Export string `json:"export"`
	P0Only bool   `json:"p0_only"`
}

// POST /api/generate
func (h *Handler) Generate(c *gin.Context) {
	var body generateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, codeInvalidRequest, err)
		return
	}

	var format export.Format
	if body.Export != "" {
		f, err := export.ParseFormat(body.Export)
		if err != nil {
			RespondError(c, http.StatusBadRequest, codeInvalidRequest, err)
			return
		}
		format = f
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.service.Generate(ctx, body.RequestParams)
	if err != nil {
		h.logger.Warn("Generation request failed", zap.String("format_id", body.FormatID), zap.Error(err))
		respondFailure(c, err)
		return
	}

	if format == "" {
		RespondOK(c, res)
		return
	}

	data, err := export.Render(res.Response, format, export.Options{P0Only: body.P0Only})
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.Header("X-Segcraft-Run-Id", res.ID.String())
	c.Header("X-Segcraft-Mode", string(res.Mode))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// GET /api/runs/recent?limit=N
func (h *Handler) RecentRuns(c *gin.Context) {
	if h.history == nil {
		RespondError(c, http.StatusServiceUnavailable, codeUnavailable, fmt.Errorf("run history is disabled"))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, gin.H{"runs": runs})
}

// GET /api/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	if h.history == nil {
		RespondError(c, http.StatusServiceUnavailable, codeUnavailable, fmt.Errorf("run history is disabled"))
		return
	}
	run, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	if run == nil {
		RespondError(c, http.StatusNotFound, codeNotFound, fmt.Errorf("run %s not found", c.Param("id")))
		return
	}
	RespondOK(c, run)
}
