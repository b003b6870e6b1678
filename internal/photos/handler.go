package photos

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/shared/server/middleware"
	"makeup-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches photo routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/photos", h.upload)
	rg.GET("/photos", h.list)
	rg.GET("/photos/:id", h.get)
	rg.POST("/uploads/presign", h.presign)
	rg.POST("/uploads/complete", h.completeUpload)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	// Leave headroom for the multipart envelope; the service enforces the file limit.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "photo exceeds 10MB", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	photo, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Set(middleware.PhotoIDKey, photo.ID)
	respond.Created(c, toResponse(photo))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	photoID := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.PhotoIDKey, photoID)

	photo, err := h.Svc.Get(c.Request.Context(), userID, photoID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toResponse(photo))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit := clampQueryInt(c, "limit", 20, 0, 50)
	offset := clampQueryInt(c, "offset", 0, 0, 1<<20)

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]Response, 0, len(list))
	for _, p := range list {
		resp = append(resp, toResponse(p))
	}
	respond.OK(c, resp)
}

func (h *Handler) presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sizeBytes exceeds limit", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	url, key, ttl, err := h.Svc.PresignUpload(c.Request.Context(), userID, strings.TrimSpace(req.FileName), strings.TrimSpace(req.ContentType))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, presignResponse{
		UploadURL:        url,
		StorageKey:       key,
		ExpiresInSeconds: int64(ttl.Seconds()),
	})
}

func (h *Handler) completeUpload(c *gin.Context) {
	var req completeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	photo, err := h.Svc.CreateFromUpload(c.Request.Context(), userID, strings.TrimSpace(req.StorageKey), strings.TrimSpace(req.FileName))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.PhotoIDKey, photo.ID)
	respond.Created(c, toResponse(photo))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "photo not found", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_media_type", "photo must be JPEG, PNG, WebP or HEIC", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "photo exceeds 10MB", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrPresignDisabled):
		respond.Error(c, http.StatusNotImplemented, "not_configured", "direct uploads are not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "photo request failed", nil)
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
