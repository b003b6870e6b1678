package profiles

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/complexion"
	"makeup-backend/internal/occasions"
	"makeup-backend/internal/shared/metrics"
	"makeup-backend/internal/shared/server/respond"
)

const defaultVariationCount = 3

// Handler serves the stateless recommendation and complexion routes.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
	rg.GET("/complexion", h.resolve)
	rg.GET("/complexion/variations", h.variations)
}

// Recommendation is the response for a submitted profile.
type Recommendation struct {
	Profile Input              `json:"profile"`
	Model   complexion.Profile `json:"model"`
	Looks   []occasions.Look   `json:"looks"`
}

func (h *Handler) recommend(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid request body", nil)
		return
	}
	if err := in.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.BadRequest(c, "skin tone, undertone and eye color are required", verr.Fields)
			return
		}
		respond.BadRequest(c, err.Error(), nil)
		return
	}

	in = in.Normalize()
	model := resolveCounted(in.SkinTone, in.Undertone)
	respond.OK(c, Recommendation{
		Profile: in,
		Model:   model,
		Looks:   occasions.BuildLooks(in.Attributes()),
	})
}

func (h *Handler) resolve(c *gin.Context) {
	skinTone := c.Query("skinTone")
	undertone := c.Query("undertone")
	occasion := strings.TrimSpace(c.Query("occasion"))

	p := resolveCounted(skinTone, undertone)
	if occasion != "" {
		p = complexion.ForOccasion(skinTone, undertone, occasion)
	}
	respond.OK(c, p)
}

func (h *Handler) variations(c *gin.Context) {
	skinTone := c.Query("skinTone")
	count := defaultVariationCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.BadRequest(c, "count must be an integer", []FieldError{{Field: "count", Issue: "not_integer"}})
			return
		}
		count = parsed
	}
	if count < 1 {
		count = 1
	}
	if pool := complexion.PoolSize(); count > pool {
		count = pool
	}

	profiles, fellBack := complexion.VariationsWithFallback(skinTone, count)
	if fellBack {
		metrics.IncResolverFallback("pool_head")
	}
	respond.OK(c, gin.H{
		"skinTone":   skinTone,
		"count":      len(profiles),
		"fallback":   fellBack,
		"variations": profiles,
	})
}

func resolveCounted(skinTone, undertone string) complexion.Profile {
	p, fallback := complexion.ResolveWithFallback(skinTone, undertone)
	if fallback != complexion.FallbackNone {
		metrics.IncResolverFallback(string(fallback))
	}
	return p
}
