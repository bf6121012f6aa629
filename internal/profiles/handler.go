package profiles

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/server/respond"
)

const maxResumeBytes = 5 << 20

var registerValidation sync.Once

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	registerValidation.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("experience_level", func(fl validator.FieldLevel) bool {
				return ValidLevel(fl.Field().String())
			})
		}
	})
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.me)
	rg.GET("/users/profile/:user_id", h.get)
	rg.PUT("/users/profile/:user_id", h.update)
	rg.POST("/users/profile/:user_id/resume", h.uploadResume)
}

func (h *Handler) me(c *gin.Context) {
	h.respondProfile(c, middleware.UserIDFromContext(c))
}

func (h *Handler) get(c *gin.Context) {
	userID := c.Param("user_id")
	if !middleware.CanAccess(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Unauthorized access", nil)
		return
	}
	h.respondProfile(c, userID)
}

func (h *Handler) respondProfile(c *gin.Context, userID string) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "failed to load profile")
		return
	}
	respond.OK(c, gin.H{"success": true, "profile": p})
}

func (h *Handler) update(c *gin.Context) {
	userID := c.Param("user_id")
	if !middleware.CanAccess(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Unauthorized access", nil)
		return
	}
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid profile update", err.Error())
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), userID, patch)
	if err != nil {
		h.fail(c, err, "failed to update profile")
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Profile updated successfully", "profile": p})
}

func (h *Handler) uploadResume(c *gin.Context) {
	userID := c.Param("user_id")
	if !middleware.CanAccess(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Unauthorized access", nil)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	if fileHeader.Size > maxResumeBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "resume must be 5MB or smaller", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxResumeBytes+1))
	if err != nil || len(data) > maxResumeBytes {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}

	p, err := h.Svc.AttachResume(c.Request.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		h.fail(c, err, "failed to process resume")
		return
	}
	respond.OK(c, gin.H{
		"success":    true,
		"resume_key": p.ResumeKey,
		"characters": len([]rune(p.ResumeText)),
		"profile":    p,
	})
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	default:
		respond.Internal(c, message, err)
	}
}
