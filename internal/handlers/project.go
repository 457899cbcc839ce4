package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasktribe/tasktribe-api/internal/errors"
	"github.com/tasktribe/tasktribe-api/internal/middleware"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/services"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project inside a workspace.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type MemberRequest struct {
		User uint64 `json:"user" binding:"required"`
		Role string `json:"role"`
	}
	type CreateRequest struct {
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		Status      string          `json:"status"`
		StartDate   *time.Time      `json:"startDate"`
		DueDate     *time.Time      `json:"dueDate"`
		Tags        string          `json:"tags"`
		Members     []MemberRequest `json:"members"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	members := make([]services.ProjectMemberInput, len(req.Members))
	for i, m := range req.Members {
		members[i] = services.ProjectMemberInput{
			UserID: m.User,
			Role:   models.ProjectRole(m.Role),
		}
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		WorkspaceID: workspaceID,
		CallerID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Members:     members,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject returns a project with its member roster.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// GetProjectTasks returns a project's non-archived tasks.
func (h *ProjectHandler) GetProjectTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, tasks, err := h.projectService.GetProjectTasks(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"tasks":   tasks,
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrWorkspaceNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrNotWorkspaceMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectTitleMissing),
		errors.Is(err, services.ErrInvalidProjectRole),
		errors.Is(err, services.ErrInvalidProjectStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
