package notifications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the notification routes. GET /notifications/:id
// takes a user id; PUT and DELETE take a notification id.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.GET("/notifications/:id", h.listForUser)
	rg.POST("/notifications", h.create)
	rg.PUT("/notifications/:id", h.markRead)
	rg.DELETE("/notifications/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	if middleware.IsAdmin(c) && c.Query("all") == "true" {
		items, err := h.Svc.All(c.Request.Context())
		if err != nil {
			respond.Internal(c, "failed to get notifications", err)
			return
		}
		respond.OK(c, gin.H{"notifications": items, "count": len(items)})
		return
	}
	h.respondForUser(c, middleware.UserIDFromContext(c))
}

func (h *Handler) listForUser(c *gin.Context) {
	userID := c.Param("id")
	if !middleware.CanAccess(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Access denied", nil)
		return
	}
	h.respondForUser(c, userID)
}

func (h *Handler) respondForUser(c *gin.Context, userID string) {
	items, err := h.Svc.ForUser(c.Request.Context(), userID)
	if err != nil {
		respond.Internal(c, "failed to get notifications", err)
		return
	}
	respond.OK(c, gin.H{"notifications": items, "user_id": userID, "count": len(items)})
}

func (h *Handler) create(c *gin.Context) {
	var d Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid notification", err.Error())
		return
	}
	if d.UserID == "" {
		d.UserID = middleware.UserIDFromContext(c)
	}
	if !middleware.CanAccess(c, d.UserID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Access denied", nil)
		return
	}
	n, err := h.Svc.Create(c.Request.Context(), d)
	if err != nil {
		h.fail(c, err, "failed to create notification")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"message": "Notification created successfully", "notification": n})
}

func (h *Handler) markRead(c *gin.Context) {
	if _, ok := h.owned(c); !ok {
		return
	}
	n, err := h.Svc.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to update notification")
		return
	}
	respond.OK(c, gin.H{"message": "Notification marked as read", "notification": n})
}

func (h *Handler) delete(c *gin.Context) {
	if _, ok := h.owned(c); !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete notification")
		return
	}
	respond.OK(c, gin.H{"message": "Notification deleted successfully"})
}

// owned loads the notification named in the path and checks the caller may
// act on it.
func (h *Handler) owned(c *gin.Context) (Notification, bool) {
	n, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load notification")
		return Notification{}, false
	}
	if !middleware.CanAccess(c, n.UserID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Access denied", nil)
		return Notification{}, false
	}
	return n, true
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Notification not found", nil)
	case errors.Is(err, ErrUnknownUser):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	default:
		respond.Internal(c, message, err)
	}
}
