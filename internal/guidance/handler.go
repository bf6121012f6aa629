package guidance

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"career-backend/internal/profiles"
	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
)

// ProfileGetter loads stored profiles.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (profiles.Profile, error)
}

type Handler struct {
	Svc      *Service
	Profiles ProfileGetter
	// Catalog serves the recommendations route when no user is named.
	Catalog gin.HandlerFunc
}

func NewHandler(svc *Service, p ProfileGetter, catalogList gin.HandlerFunc) *Handler {
	return &Handler{Svc: svc, Profiles: p, Catalog: catalogList}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/career/recommendations", h.recommendations)
	rg.GET("/career/recommendations/:user_id", h.recommendations)
	rg.GET("/skills/analysis/:user_id", middleware.RequireUser(), h.skillGap)
	rg.GET("/job-market/analysis", middleware.RequireUser(), h.market)
	rg.POST("/chatbot/message", middleware.RequireUser(), h.chat)
	rg.GET("/chatbot/history", middleware.RequireUser(), h.history)
}

func (h *Handler) recommendations(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		userID = c.Query("user_id")
	}
	if userID == "" {
		if h.Catalog == nil {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "user_id is required", nil)
			return
		}
		h.Catalog(c)
		return
	}

	p, ok := h.ownedProfile(c, userID)
	if !ok {
		return
	}
	recs, out := h.Svc.Recommendations(c.Request.Context(), p.Context())
	annotate(c, out)
	respond.OK(c, RecommendationsResponse{
		Success:         true,
		UserID:          userID,
		Recommendations: recs,
		Timestamp:       respond.Timestamp(h.Svc.timestamp()),
	})
}

func (h *Handler) skillGap(c *gin.Context) {
	userID := c.Param("user_id")
	p, ok := h.ownedProfile(c, userID)
	if !ok {
		return
	}
	pc := p.Context()
	target := ResolveTargetCareer(c.Query("career"), pc)
	analysis, out := h.Svc.SkillGap(c.Request.Context(), pc, target)
	annotate(c, out)
	respond.OK(c, SkillGapResponse{
		Success:      true,
		UserID:       userID,
		TargetCareer: target,
		Analysis:     analysis,
		Timestamp:    respond.Timestamp(h.Svc.timestamp()),
	})
}

func (h *Handler) market(c *gin.Context) {
	q := MarketQuery{
		CareerField:     c.Query("career_field"),
		Industry:        c.Query("industry"),
		Location:        c.Query("location"),
		ExperienceLevel: c.Query("experience_level"),
	}
	if userID := strings.TrimSpace(c.Query("user_id")); userID != "" {
		if !middleware.CanAccess(c, userID) {
			respond.Error(c, http.StatusForbidden, "forbidden", "Access denied", nil)
			return
		}
		p, err := h.Profiles.Get(c.Request.Context(), userID)
		switch {
		case err == nil:
			pc := p.Context()
			q.Profile = &pc
		case errors.Is(err, profiles.ErrNotFound):
		default:
			respond.Internal(c, "failed to load profile", err)
			return
		}
	}

	analysis, field, out := h.Svc.MarketAnalysis(c.Request.Context(), q)
	annotate(c, out)
	respond.OK(c, MarketResponse{
		Success:     true,
		CareerField: field,
		Analysis:    analysis,
		Timestamp:   respond.Timestamp(h.Svc.timestamp()),
	})
}

func (h *Handler) chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid JSON data", err.Error())
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Message is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	p, err := h.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		profileError(c, err)
		return
	}
	reply, out := h.Svc.Chat(c.Request.Context(), userID, p.Context(), req)
	annotate(c, out)
	respond.OK(c, ChatResponse{
		Success:   true,
		Message:   req.Message,
		Response:  reply.Response,
		Timestamp: respond.Timestamp(h.Svc.timestamp()),
		UserID:    userID,
		Exception: reply.Exception,
	})
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	convs, err := h.Svc.History(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Internal(c, "failed to get conversation history", err)
		return
	}
	respond.OK(c, gin.H{
		"success":       true,
		"conversations": convs,
		"user_id":       userID,
		"timestamp":     respond.Timestamp(h.Svc.timestamp()),
	})
}

// ownedProfile enforces authentication and ownership, then loads the
// profile. It writes the error response itself and returns false on failure.
func (h *Handler) ownedProfile(c *gin.Context, userID string) (profiles.Profile, bool) {
	if middleware.UserIDFromContext(c) == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Token is missing", nil)
		return profiles.Profile{}, false
	}
	if !middleware.CanAccess(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Access denied", nil)
		return profiles.Profile{}, false
	}
	p, err := h.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		profileError(c, err)
		return profiles.Profile{}, false
	}
	return p, true
}

func profileError(c *gin.Context, err error) {
	if errors.Is(err, profiles.ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
		return
	}
	respond.Internal(c, "failed to load profile", err)
}

func annotate(c *gin.Context, out Outcome) {
	c.Set(middleware.GenerationOutcomeKey, string(out.Kind))
	if out.Model != "" {
		c.Set(middleware.GenerationModelKey, out.Model)
	}
}
