package catalog

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"career-backend/internal/shared/server/respond"
)

type Handler struct {
	Repo Repo
	Now  func() time.Time
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo, Now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/careers", h.ListCareers)
	rg.GET("/skills", h.listSkills)
}

// ListCareers serves the catalog listing. Query params: q, industry, limit.
func (h *Handler) ListCareers(c *gin.Context) {
	f := Filter{
		Query:    c.Query("q"),
		Industry: c.Query("industry"),
		Limit:    parseLimit(c.Query("limit")),
	}
	careers, err := h.Repo.SearchCareers(c.Request.Context(), f)
	if err != nil {
		respond.Internal(c, "failed to load careers", err)
		return
	}
	respond.OK(c, gin.H{
		"success":   true,
		"careers":   careers,
		"count":     len(careers),
		"timestamp": respond.Timestamp(h.now()),
	})
}

func (h *Handler) listSkills(c *gin.Context) {
	f := Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Limit:    parseLimit(c.Query("limit")),
	}
	skills, err := h.Repo.ListSkills(c.Request.Context(), f)
	if err != nil {
		respond.Internal(c, "failed to load skills", err)
		return
	}
	respond.OK(c, gin.H{
		"success":   true,
		"skills":    skills,
		"count":     len(skills),
		"timestamp": respond.Timestamp(h.now()),
	})
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
