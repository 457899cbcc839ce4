package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktribe/tasktribe-api/internal/dto"
	apierrors "github.com/tasktribe/tasktribe-api/internal/errors"
	"github.com/tasktribe/tasktribe-api/internal/middleware"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/services"
)

// WorkspaceHandler coordinates workspace HTTP handlers, including the
// invite flow and the stats endpoint.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
	statsService     *services.StatsService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService, statsService *services.StatsService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		statsService:     statsService,
	}
}

// CreateWorkspace creates a workspace owned by the caller.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.workspaceService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		OwnerID:     userID,
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceDTO(*ws))
}

// ListWorkspaces returns the caller's workspaces.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaces, err := h.workspaceService.ListWorkspaces(userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTOs(workspaces))
}

// GetWorkspace returns a workspace with its member roster.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		return
	}

	ws, err := h.workspaceService.GetWorkspace(workspaceID, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*ws))
}

// GetWorkspaceProjects returns a workspace's non-archived projects.
func (h *WorkspaceHandler) GetWorkspaceProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		return
	}

	ws, projects, err := h.workspaceService.GetWorkspaceProjects(workspaceID, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspace": dto.ToWorkspaceDTO(*ws),
		"projects":  projects,
	})
}

// GetWorkspaceStats returns the dashboard bundle for a workspace.
func (h *WorkspaceHandler) GetWorkspaceStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		return
	}

	bundle, err := h.statsService.ComputeStats(workspaceID, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// InviteMember emails an invitation to join the workspace.
func (h *WorkspaceHandler) InviteMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		return
	}

	type InviteRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err := h.workspaceService.InviteMember(services.InviteMemberInput{
		WorkspaceID: workspaceID,
		CallerID:    userID,
		Email:       req.Email,
		Role:        models.WorkspaceRole(req.Role),
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation sent successfully"})
}

// AcceptInviteByToken redeems an emailed invite token for the caller.
func (h *WorkspaceHandler) AcceptInviteByToken(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AcceptRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.workspaceService.AcceptInviteByToken(req.Token, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Invitation accepted successfully",
		"workspace": dto.ToWorkspaceDTO(*ws),
	})
}

// AcceptGenerateInvite joins the caller to the workspace as a member.
func (h *WorkspaceHandler) AcceptGenerateInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		return
	}

	ws, err := h.workspaceService.AcceptGenerateInvite(workspaceID, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Invitation accepted successfully",
		"workspace": dto.ToWorkspaceDTO(*ws),
	})
}

// GetInviteDetails returns public workspace info for the invite landing
// page. No authentication required.
func (h *WorkspaceHandler) GetInviteDetails(c *gin.Context) {
	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		return
	}

	ws, err := h.workspaceService.GetInviteDetails(workspaceID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInviteDetailsDTO(*ws))
}

func respondWorkspaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrInviteeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotWorkspaceMember),
		errors.Is(err, services.ErrCannotInvite):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInviteTokenInvalid):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrWorkspaceNameRequired),
		errors.Is(err, services.ErrAlreadyWorkspaceMember),
		errors.Is(err, services.ErrInvitePending),
		errors.Is(err, services.ErrInviteExpired),
		errors.Is(err, services.ErrInvalidWorkspaceRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailSendFailed):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
