package planning

import (
	"errors"
	"net/http"
	"strings"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/career/plan", h.plan)
	rg.PUT("/career/plan", h.setLearningPlan)
	rg.POST("/career/goals", h.addGoal)
	rg.PUT("/career/goals/:goal_id", h.toggleGoal)
	rg.POST("/career/milestones", h.addMilestone)
	rg.PUT("/career/milestones/:milestone_id", h.toggleMilestone)
}

type ownerBody struct {
	UserID string `json:"user_id" binding:"max=64"`
}

type goalBody struct {
	ownerBody
	Goal string `json:"goal" binding:"required,max=500"`
}

type milestoneBody struct {
	ownerBody
	MilestoneInput
}

type learningPlanBody struct {
	ownerBody
	LearningPlan []string `json:"learning_plan" binding:"max=50,dive,max=300"`
}

func (h *Handler) plan(c *gin.Context) {
	userID, ok := h.owner(c, c.Query("user_id"))
	if !ok {
		return
	}
	p, err := h.Svc.Plan(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to get career plan")
		return
	}
	respond.OK(c, gin.H{"success": true, "plan": p})
}

func (h *Handler) setLearningPlan(c *gin.Context) {
	var body learningPlanBody
	if !bind(c, &body) {
		return
	}
	userID, ok := h.owner(c, body.UserID)
	if !ok {
		return
	}
	p, err := h.Svc.SetLearningPlan(c.Request.Context(), userID, body.LearningPlan)
	if err != nil {
		h.fail(c, err, "Failed to update learning plan")
		return
	}
	respond.OK(c, gin.H{"success": true, "plan": p})
}

func (h *Handler) addGoal(c *gin.Context) {
	var body goalBody
	if !bind(c, &body) {
		return
	}
	userID, ok := h.owner(c, body.UserID)
	if !ok {
		return
	}
	g, err := h.Svc.AddGoal(c.Request.Context(), userID, body.Goal)
	if err != nil {
		h.fail(c, err, "Failed to add career goal")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "goal_id": g.ID, "goal": g, "message": "Goal added successfully"})
}

func (h *Handler) toggleGoal(c *gin.Context) {
	var body ownerBody
	if !bindOptional(c, &body) {
		return
	}
	userID, ok := h.owner(c, body.UserID)
	if !ok {
		return
	}
	g, err := h.Svc.ToggleGoal(c.Request.Context(), userID, c.Param("goal_id"))
	if err != nil {
		h.fail(c, err, "Failed to update career goal")
		return
	}
	respond.OK(c, gin.H{"success": true, "goal": g, "message": "Goal updated successfully"})
}

func (h *Handler) addMilestone(c *gin.Context) {
	var body milestoneBody
	if !bind(c, &body) {
		return
	}
	userID, ok := h.owner(c, body.UserID)
	if !ok {
		return
	}
	m, err := h.Svc.AddMilestone(c.Request.Context(), userID, body.MilestoneInput)
	if err != nil {
		h.fail(c, err, "Failed to add career milestone")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "milestone_id": m.ID, "milestone": m, "message": "Milestone added successfully"})
}

func (h *Handler) toggleMilestone(c *gin.Context) {
	var body ownerBody
	if !bindOptional(c, &body) {
		return
	}
	userID, ok := h.owner(c, body.UserID)
	if !ok {
		return
	}
	m, err := h.Svc.ToggleMilestone(c.Request.Context(), userID, c.Param("milestone_id"))
	if err != nil {
		h.fail(c, err, "Failed to update career milestone")
		return
	}
	respond.OK(c, gin.H{"success": true, "milestone": m, "message": "Milestone updated successfully"})
}

// owner resolves whose plan the request targets, defaulting to the caller.
func (h *Handler) owner(c *gin.Context, requested string) (string, bool) {
	userID := strings.TrimSpace(requested)
	if userID == "" {
		userID = middleware.UserIDFromContext(c)
	}
	if !middleware.CanAccess(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "Unauthorized access", nil)
		return "", false
	}
	return userID, true
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", err.Error())
		return false
	}
	return true
}

// bindOptional accepts an empty body.
func bindOptional(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bind(c, dst)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Plan item not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	default:
		respond.Internal(c, message, err)
	}
}
