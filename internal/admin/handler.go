// Package admin serves platform statistics and user management to admins.
package admin

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"career-backend/internal/catalog"
	"career-backend/internal/profiles"
	"career-backend/internal/shared/server/respond"
	"career-backend/internal/shared/telemetry"
)

const (
	activeWindow = 24 * time.Hour
	recentUsers  = 5
)

type Handler struct {
	Profiles *profiles.Service
	Catalog  catalog.Repo
}

func NewHandler(profileSvc *profiles.Service, catalogRepo catalog.Repo) *Handler {
	return &Handler{Profiles: profileSvc, Catalog: catalogRepo}
}

// RegisterRoutes mounts the admin routes. The group must already require an
// admin caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/stats", h.stats)
	rg.GET("/admin/users", h.listUsers)
	rg.PUT("/admin/users/:user_id", h.updateUser)
	rg.DELETE("/admin/users/:user_id", h.deleteUser)
}

type roleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type userSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) stats(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.Profiles.Stats(ctx, activeWindow)
	if err != nil {
		respond.Internal(c, "failed to load stats", err)
		return
	}
	var counts catalog.Counts
	if h.Catalog != nil {
		if counts, err = h.Catalog.Count(ctx); err != nil {
			respond.Internal(c, "failed to load stats", err)
			return
		}
	}
	recent, err := h.Profiles.List(ctx, recentUsers)
	if err != nil {
		respond.Internal(c, "failed to load stats", err)
		return
	}

	roles := make([]roleCount, 0, len(st.Roles))
	for role, n := range st.Roles {
		roles = append(roles, roleCount{Role: role, Count: n})
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Role < roles[j].Role })

	users := make([]userSummary, 0, len(recent))
	for _, p := range recent {
		users = append(users, summarize(p))
	}

	respond.OK(c, gin.H{"success": true, "stats": gin.H{
		"total_users":       st.Total,
		"total_careers":     counts.Careers,
		"total_skills":      counts.Skills,
		"active_sessions":   st.Active,
		"role_distribution": roles,
		"recent_users":      users,
	}})
}

func (h *Handler) listUsers(c *gin.Context) {
	list, err := h.Profiles.List(c.Request.Context(), 0)
	if err != nil {
		respond.Internal(c, "failed to list users", err)
		return
	}
	users := make([]userSummary, 0, len(list))
	for _, p := range list {
		users = append(users, summarize(p))
	}
	respond.OK(c, gin.H{"success": true, "users": users})
}

func (h *Handler) updateUser(c *gin.Context) {
	var patch profiles.AdminPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid user update", err.Error())
		return
	}
	p, err := h.Profiles.AdminUpdate(c.Request.Context(), c.Param("user_id"), patch)
	if err != nil {
		h.fail(c, err, "failed to update user")
		return
	}
	telemetry.Info("admin.user_updated", map[string]any{"user_id": p.ID, "role": p.Role})
	respond.OK(c, gin.H{"success": true, "message": "User updated successfully", "user": summarize(p)})
}

func (h *Handler) deleteUser(c *gin.Context) {
	userID := c.Param("user_id")
	if err := h.Profiles.Delete(c.Request.Context(), userID); err != nil {
		h.fail(c, err, "failed to delete user")
		return
	}
	telemetry.Info("admin.user_deleted", map[string]any{"user_id": userID})
	respond.OK(c, gin.H{"success": true, "message": "User deleted successfully"})
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	case errors.Is(err, profiles.ErrConflict), errors.Is(err, profiles.ErrLastAdmin):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, profiles.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	default:
		respond.Internal(c, message, err)
	}
}

func summarize(p profiles.Profile) userSummary {
	return userSummary{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role, CreatedAt: p.CreatedAt}
}
