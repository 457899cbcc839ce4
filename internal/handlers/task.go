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
	"github.com/tasktribe/tasktribe-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task inside a project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		Tags        []string   `json:"tags"`
		Assignees   []uint64   `json:"assignees"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:   projectID,
		CallerID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Assignees:   req.Assignees,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetMyTasks returns the caller's assigned, non-archived tasks.
func (h *TaskHandler) GetMyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.GetMyTasks(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTask returns a task with its relations.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTitle sets the task title.
func (h *TaskHandler) UpdateTitle(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	type UpdateRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTitle(taskID, userID, req.Title)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateDescription sets the task description.
func (h *TaskHandler) UpdateDescription(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	type UpdateRequest struct {
		Description string `json:"description"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateDescription(taskID, userID, req.Description)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateStatus sets the task status.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	type UpdateRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(taskID, userID, models.TaskStatus(req.Status))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdatePriority sets the task priority.
func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	type UpdateRequest struct {
		Priority string `json:"priority" binding:"required"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdatePriority(taskID, userID, models.TaskPriority(req.Priority))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateAssignees replaces the task's assignee set.
func (h *TaskHandler) UpdateAssignees(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	type UpdateRequest struct {
		Assignees []uint64 `json:"assignees"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateAssignees(taskID, userID, req.Assignees)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AddSubTask appends a subtask.
func (h *TaskHandler) AddSubTask(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	type AddRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AddSubTask(taskID, userID, req.Title)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateSubTask edits a subtask's title or completion flag.
func (h *TaskHandler) UpdateSubTask(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}
	subTaskID, ok := parseIDParam(c, "subTaskId")
	if !ok {
		return
	}

	type UpdateRequest struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateSubTask(services.UpdateSubTaskInput{
		TaskID:    taskID,
		SubTaskID: subTaskID,
		CallerID:  userID,
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AddComment appends a comment to a task.
func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	type AddRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.taskService.AddComment(taskID, userID, req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetComments lists a task's comments.
func (h *TaskHandler) GetComments(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	comments, err := h.taskService.GetComments(taskID, userID, utils.GetPaginationParams(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// WatchTask toggles the caller in the task's watcher set.
func (h *TaskHandler) WatchTask(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	task, watching, err := h.taskService.WatchTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	message := "Stopped watching task"
	if watching {
		message = "Started watching task"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"task":    task,
	})
}

// ArchiveTask toggles the task's archived flag.
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	task, err := h.taskService.ArchiveTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	message := "Task unarchived"
	if task.IsArchived {
		message = "Task archived"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"task":    task,
	})
}

// GetTaskActivity lists a task's activity feed.
func (h *TaskHandler) GetTaskActivity(c *gin.Context) {
	userID, taskID, ok := h.callerAndTask(c)
	if !ok {
		return
	}

	entries, err := h.taskService.GetActivity(taskID, userID, utils.GetPaginationParams(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *TaskHandler) callerAndTask(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}
	taskID, ok = parseIDParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	return userID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSubTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskTitleMissing),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrAssigneeNotMember),
		errors.Is(err, services.ErrCommentTextMissing):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
