package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/shared/server/middleware"
	"makeup-backend/internal/shared/server/respond"
)

type meResponse struct {
	UserID  string `json:"userId"`
	IsGuest bool   `json:"isGuest"`
	GuestID string `json:"guestId,omitempty"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// registerMeRoutes mounts GET /me, which echoes the resolved caller so the
// app can tell whether its guest data still needs claiming.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", func(c *gin.Context) {
		id, ok := middleware.IdentityFromContext(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		respond.OK(c, meResponse{
			UserID:  id.UserID,
			IsGuest: id.IsGuest,
			GuestID: id.GuestID(),
			Email:   id.Email,
			Name:    id.Name,
		})
	})
}
