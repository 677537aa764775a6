// Package api exposes the query processor over HTTP. Every request carries
// the employee's code and PIN as HTTP Basic credentials; nothing is kept
// between requests.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyellow/askhr-go/internal/analytics"
	"github.com/garyellow/askhr-go/internal/ctxutil"
	"github.com/garyellow/askhr-go/internal/dispatch"
	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/logger"
	"github.com/garyellow/askhr-go/internal/metrics"
)

// maxBodyBytes bounds an /api/ask request body.
const maxBodyBytes = 64 << 10

// Asker answers one query. *bot.Processor satisfies it.
type Asker interface {
	Ask(ctx context.Context, query string, session dispatch.Session) dispatch.Response
}

// Handler serves the /api routes.
type Handler struct {
	asker       Asker
	corpus      *hr.Corpus
	credentials hr.CredentialStore
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Asker       Asker
	Corpus      *hr.Corpus
	Credentials hr.CredentialStore
	// Metrics may be nil.
	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		asker:       cfg.Asker,
		corpus:      cfg.Corpus,
		credentials: cfg.Credentials,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// Register mounts the authenticated /api routes on r.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api", h.authenticate())
	g.POST("/ask", h.Ask)
	g.GET("/sections", h.Sections)
}

type askRequest struct {
	Query    string `json:"query"`
	Language string `json:"language" binding:"omitempty,oneof=en ar"`
}

// Ask answers POST /api/ask. Aggregation tables are returned as CSV when
// the request has ?format=csv; every other answer is JSON.
func (h *Handler) Ask(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		case errors.Is(err, io.EOF):
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body is empty"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		}
		return
	}

	session := dispatch.Session{
		EmployeeCode: c.GetString(employeeKey),
		Language:     req.Language,
	}
	resp := h.asker.Ask(c.Request.Context(), req.Query, session)

	if strings.EqualFold(c.Query("format"), "csv") && resp.Table != nil {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+csvName(resp.Table)+`"`)
		c.Status(http.StatusOK)
		if err := analytics.WriteCSV(c.Writer, resp.Table.Result); err != nil {
			h.logger.WithError(err).Error("Failed to write CSV response")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func csvName(t *dispatch.AggregationTable) string {
	name := t.Column
	if name == "" {
		name = "headcount"
	}
	name = strings.ToLower(strings.Join(strings.Fields(name), "_"))
	return name + ".csv"
}

type sectionEntry struct {
	Ordinal int    `json:"ordinal"`
	Title   string `json:"title"`
}

// Sections answers GET /api/sections with the numbered policy sections.
func (h *Handler) Sections(c *gin.Context) {
	sections := []sectionEntry{}
	if h.corpus != nil {
		for _, s := range h.corpus.Numbered() {
			sections = append(sections, sectionEntry{Ordinal: s.Ordinal, Title: s.Title})
		}
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// requestIDFromContext is used by log lines written inside handlers.
func requestIDFromContext(ctx context.Context) string {
	id, _ := ctxutil.GetRequestID(ctx)
	return id
}
