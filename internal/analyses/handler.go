package analyses

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/shared/server/middleware"
	"makeup-backend/internal/shared/server/respond"
	"makeup-backend/internal/vision"
)

// pollRule allows one status read per second for each caller and analysis,
// on top of the route-group limit.
var pollRule = middleware.RateLimitRule{Rate: 1, Burst: 1}

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc  *Service
	poll *middleware.RateLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, poll: middleware.NewRateLimiter(nil)}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/photos/:id/analyze", h.startAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.DELETE("/analyses/:id", h.cancelAnalysis)
}

func (h *Handler) startAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	photoID := strings.TrimSpace(c.Param("id"))
	if photoID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "photo id is required", nil)
		return
	}
	c.Set(middleware.PhotoIDKey, photoID)

	// The body is optional: it only carries the last manual entry.
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, err := h.Svc.Create(ctx, photoID, userID, Hint{SkinTone: req.SkinTone, Undertone: req.Undertone})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Set(middleware.AnalysisIDKey, analysis.ID)
	c.Set(middleware.StatusTransitionKey, "->"+StatusQueued)
	respond.Accepted(c, gin.H{
		"analysisId": analysis.ID,
		"photoId":    analysis.PhotoID,
		"status":     analysis.Status,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysisID := strings.TrimSpace(c.Param("id"))
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}
	c.Set(middleware.AnalysisIDKey, analysisID)

	if ok, wait := h.poll.Allow(userID+"|"+analysisID, pollRule); !ok {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "polling too frequently", gin.H{
			"retryAfterMs": wait.Milliseconds(),
		})
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.PhotoIDKey, analysis.PhotoID)

	respond.OK(c, toView(analysis))
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit := clampQueryInt(c, "limit", 20, 1, 100)
	offset := clampQueryInt(c, "offset", 0, 0, 1<<20)

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]Summary, 0, len(list))
	for _, a := range list {
		resp = append(resp, toSummary(a))
	}
	respond.OK(c, resp)
}

func (h *Handler) cancelAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysisID := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.AnalysisIDKey, analysisID)

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, err := h.Svc.Cancel(ctx, userID, analysisID)
	if err != nil {
		if errors.Is(err, ErrAlreadyFinished) {
			respond.Error(c, http.StatusConflict, "already_finished", "analysis already finished", gin.H{
				"status": publicStatus(analysis.Status),
			})
			return
		}
		h.writeError(c, err)
		return
	}

	c.Set(middleware.PhotoIDKey, analysis.PhotoID)
	c.Set(middleware.StatusTransitionKey, "->"+StatusFailed)
	respond.OK(c, toView(analysis))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
	case errors.Is(err, ErrPhotoNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "photo not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request", nil)
	case errors.Is(err, vision.ErrAnalyzerUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeAnalyzerUnavailable, "photo analyzer is not configured", nil)
	case errors.Is(err, ErrShuttingDown):
		respond.Error(c, http.StatusServiceUnavailable, "shutting_down", "server is shutting down", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis request failed", nil)
	}
}

func clampQueryInt(c *gin.Context, key string, def, lo, hi int) int {
	v := def
	if raw := c.Query(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			v = parsed
		}
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
