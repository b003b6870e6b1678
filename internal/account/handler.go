package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"makeup-backend/internal/shared/server/middleware"
	"makeup-backend/internal/shared/server/respond"
)

// Handler exposes guest claiming over HTTP.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/claim-guest", h.claimGuest)
}

type claimResponse struct {
	UserID string `json:"userId"`
	ClaimResult
}

// claimGuest is called by a signed-in client that still holds its old guest
// id in X-Guest-Id.
func (h *Handler) claimGuest(c *gin.Context) {
	if h.Svc == nil {
		respond.Internal(c)
		return
	}

	id, ok := middleware.IdentityFromContext(c)
	if !ok || id.IsGuest {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "sign in before claiming guest data", nil)
		return
	}

	guestID, issue := parseGuestID(c.GetHeader("X-Guest-Id"))
	if issue != "" {
		respond.BadRequest(c, "X-Guest-Id "+issue, []map[string]string{{"field": "X-Guest-Id", "issue": issue}})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), "guest:"+guestID, id.UserID)
	switch {
	case errors.Is(err, ErrClaimUnsupported):
		respond.Error(c, http.StatusNotImplemented, "claim_unsupported", "guest claiming is not available", nil)
		return
	case err != nil:
		respond.Internal(c)
		return
	}
	respond.OK(c, claimResponse{UserID: id.UserID, ClaimResult: result})
}

func parseGuestID(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "required"
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", "invalid"
	}
	return raw, ""
}
