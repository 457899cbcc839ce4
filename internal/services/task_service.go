package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasktribe/tasktribe-api/internal/authz"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"github.com/tasktribe/tasktribe-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrSubTaskNotFound     = errors.New("subtask not found")
	ErrTaskTitleMissing    = errors.New("task title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrAssigneeNotMember   = errors.New("one or more assignees are not members of this project")
	ErrCommentTextMissing  = errors.New("comment text is required")
)

var validTaskStatuses = map[models.TaskStatus]bool{
	models.TaskStatusToDo:       true,
	models.TaskStatusInProgress: true,
	models.TaskStatusReview:     true,
	models.TaskStatusDone:       true,
}

var validTaskPriorities = map[models.TaskPriority]bool{
	models.TaskPriorityLow:    true,
	models.TaskPriorityMedium: true,
	models.TaskPriorityHigh:   true,
}

// TaskService handles task business logic. Authorization for every task
// operation is decided against the parent project's roster only.
type TaskService struct {
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	activity     *ActivityRecorder
	activityRepo repository.ActivityRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, activity *ActivityRecorder, activityRepo repository.ActivityRepository) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		activity:     activity,
		activityRepo: activityRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   uint64
	CallerID    uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	Tags        []string
	Assignees   []uint64
}

// CreateTask creates a task inside a project the caller belongs to.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleMissing
	}

	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, input.CallerID) {
		return nil, ErrNotProjectMember
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusToDo
	}
	if !validTaskStatuses[status] {
		return nil, ErrInvalidTaskStatus
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !validTaskPriorities[priority] {
		return nil, ErrInvalidTaskPriority
	}

	for _, userID := range input.Assignees {
		if !authz.IsProjectMember(project, userID) {
			return nil, ErrAssigneeNotMember
		}
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		Tags:        input.Tags,
		CreatedByID: input.CallerID,
	}

	if err := s.taskRepo.Create(task, input.Assignees); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.activity.Record(input.CallerID, models.ActionCreatedTask, models.ResourceTask, task.ID, models.ActivityDetails{
		Description: fmt.Sprintf("created task %q", utils.TruncateText(task.Title)),
	})

	created, err := s.taskRepo.FindByID(task.ID, "Assignees", "Assignees.User")
	if err != nil {
		return task, nil
	}
	return created, nil
}

// GetTask returns a task with its relations, archived or not.
func (s *TaskService) GetTask(taskID, callerID uint64) (*models.Task, error) {
	task, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	return task, nil
}

// UpdateTitle sets the task title and records the before/after.
func (s *TaskService) UpdateTitle(taskID, callerID uint64, title string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTaskTitleMissing
	}

	return s.updateField(taskID, callerID, func(task *models.Task) models.ActivityDetails {
		old := task.Title
		task.Title = title
		return models.ActivityDetails{
			Description: fmt.Sprintf("updated task title from %q to %q", utils.TruncateText(old), utils.TruncateText(title)),
			Field:       "title",
			OldValue:    utils.TruncateText(old),
			NewValue:    utils.TruncateText(title),
		}
	})
}

// UpdateDescription sets the task description and records the before/after.
func (s *TaskService) UpdateDescription(taskID, callerID uint64, description string) (*models.Task, error) {
	return s.updateField(taskID, callerID, func(task *models.Task) models.ActivityDetails {
		old := task.Description
		task.Description = description
		return models.ActivityDetails{
			Description: fmt.Sprintf("updated task description from %q to %q", utils.TruncateText(old), utils.TruncateText(description)),
			Field:       "description",
			OldValue:    utils.TruncateText(old),
			NewValue:    utils.TruncateText(description),
		}
	})
}

// UpdateStatus sets the task status. No transition graph is enforced: any
// project member may move a task to any status.
func (s *TaskService) UpdateStatus(taskID, callerID uint64, status models.TaskStatus) (*models.Task, error) {
	if !validTaskStatuses[status] {
		return nil, ErrInvalidTaskStatus
	}

	return s.updateField(taskID, callerID, func(task *models.Task) models.ActivityDetails {
		old := task.Status
		task.Status = status
		return models.ActivityDetails{
			Description: fmt.Sprintf("updated task status from %q to %q", old, status),
			Field:       "status",
			OldValue:    string(old),
			NewValue:    string(status),
		}
	})
}

// UpdatePriority sets the task priority and records the before/after.
func (s *TaskService) UpdatePriority(taskID, callerID uint64, priority models.TaskPriority) (*models.Task, error) {
	if !validTaskPriorities[priority] {
		return nil, ErrInvalidTaskPriority
	}

	return s.updateField(taskID, callerID, func(task *models.Task) models.ActivityDetails {
		old := task.Priority
		task.Priority = priority
		return models.ActivityDetails{
			Description: fmt.Sprintf("updated task priority from %q to %q", old, priority),
			Field:       "priority",
			OldValue:    string(old),
			NewValue:    string(priority),
		}
	})
}

// UpdateAssignees replaces the assignee set with the given users, in the
// given order. Every assignee must be a project member.
func (s *TaskService) UpdateAssignees(taskID, callerID uint64, userIDs []uint64) (*models.Task, error) {
	task, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	for _, userID := range userIDs {
		if !authz.IsProjectMember(project, userID) {
			return nil, ErrAssigneeNotMember
		}
	}

	oldCount := len(task.Assignees)
	if err := s.taskRepo.ReplaceAssignees(taskID, userIDs); err != nil {
		return nil, fmt.Errorf("failed to replace assignees: %w", err)
	}

	s.activity.Record(callerID, models.ActionUpdatedTask, models.ResourceTask, taskID, models.ActivityDetails{
		Description: fmt.Sprintf("updated task assignees from %d to %d members", oldCount, len(userIDs)),
		Field:       "assignees",
	})

	return s.reload(taskID)
}

// AddSubTask appends a subtask to a task.
func (s *TaskService) AddSubTask(taskID, callerID uint64, title string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTaskTitleMissing
	}

	_, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	st := &models.SubTask{TaskID: taskID, Title: title}
	if err := s.taskRepo.CreateSubTask(st); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	s.activity.Record(callerID, models.ActionCreatedSubtask, models.ResourceTask, taskID, models.ActivityDetails{
		Description: fmt.Sprintf("created subtask %q", utils.TruncateText(title)),
	})

	return s.reload(taskID)
}

// UpdateSubTaskInput represents input for updating a subtask
type UpdateSubTaskInput struct {
	TaskID    uint64
	SubTaskID uint64
	CallerID  uint64
	Title     *string
	Completed *bool
}

// UpdateSubTask edits an embedded subtask. Completing a subtask never
// changes the parent task's status.
func (s *TaskService) UpdateSubTask(input UpdateSubTaskInput) (*models.Task, error) {
	_, project, err := s.loadTaskAndProject(input.TaskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, input.CallerID) {
		return nil, ErrNotProjectMember
	}

	st, err := s.taskRepo.FindSubTask(input.TaskID, input.SubTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubTaskNotFound
		}
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}

	if input.Title != nil {
		st.Title = *input.Title
	}
	if input.Completed != nil {
		st.Completed = *input.Completed
	}

	if err := s.taskRepo.UpdateSubTask(st); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}

	s.activity.Record(input.CallerID, models.ActionUpdatedSubtask, models.ResourceTask, input.TaskID, models.ActivityDetails{
		Description: fmt.Sprintf("updated subtask %q", utils.TruncateText(st.Title)),
	})

	return s.reload(input.TaskID)
}

// AddComment appends a comment to a task.
func (s *TaskService) AddComment(taskID, callerID uint64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentTextMissing
	}

	_, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	comment := &models.Comment{
		TaskID:   taskID,
		AuthorID: callerID,
		Text:     text,
	}
	if err := s.taskRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.activity.Record(callerID, models.ActionAddedComment, models.ResourceTask, taskID, models.ActivityDetails{
		Description: fmt.Sprintf("added comment %q", utils.TruncateText(text)),
	})

	return comment, nil
}

// GetComments lists a page of a task's comments, newest first.
func (s *TaskService) GetComments(taskID, callerID uint64, params utils.PaginationParams) ([]models.Comment, error) {
	_, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	comments, err := s.taskRepo.ListComments(taskID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// WatchTask toggles the caller in the task's watcher set. Calling it twice
// returns the caller to their original state.
func (s *TaskService) WatchTask(taskID, callerID uint64) (*models.Task, bool, error) {
	task, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, false, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, false, ErrNotProjectMember
	}

	watching, err := s.taskRepo.ToggleWatcher(taskID, callerID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to toggle watcher: %w", err)
	}

	verb := "stopped watching"
	if watching {
		verb = "started watching"
	}
	s.activity.Record(callerID, models.ActionUpdatedTask, models.ResourceTask, taskID, models.ActivityDetails{
		Description: fmt.Sprintf("%s task %q", verb, utils.TruncateText(task.Title)),
		Field:       "watchers",
	})

	updated, err := s.reload(taskID)
	if err != nil {
		return nil, false, err
	}
	return updated, watching, nil
}

// ArchiveTask toggles the task's archived flag. Archived tasks disappear
// from the default listings but stay retrievable by id.
func (s *TaskService) ArchiveTask(taskID, callerID uint64) (*models.Task, error) {
	task, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	task.IsArchived = !task.IsArchived
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	verb := "unarchived"
	if task.IsArchived {
		verb = "archived"
	}
	s.activity.Record(callerID, models.ActionUpdatedTask, models.ResourceTask, taskID, models.ActivityDetails{
		Description: fmt.Sprintf("%s task %q", verb, utils.TruncateText(task.Title)),
		Field:       "isArchived",
	})

	return task, nil
}

// GetMyTasks lists the caller's assigned, non-archived tasks.
func (s *TaskService) GetMyTasks(callerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAssignedTo(callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetActivity lists a page of a task's activity, newest first.
func (s *TaskService) GetActivity(taskID, callerID uint64, params utils.PaginationParams) ([]models.ActivityLog, error) {
	_, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	entries, err := s.activityRepo.ListByResource(models.ResourceTask, taskID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}

// updateField runs the shared single-field mutation template: load,
// authorize against the project roster, apply, persist, then record exactly
// one activity row.
func (s *TaskService) updateField(taskID, callerID uint64, apply func(*models.Task) models.ActivityDetails) (*models.Task, error) {
	task, project, err := s.loadTaskAndProject(taskID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	details := apply(task)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.activity.Record(callerID, models.ActionUpdatedTask, models.ResourceTask, task.ID, details)

	return task, nil
}

func (s *TaskService) loadTaskAndProject(taskID uint64) (*models.Task, *models.Project, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignees", "Assignees.User", "Watchers", "SubTasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := s.projectRepo.FindByIDWithMembers(task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	return task, project, nil
}

func (s *TaskService) loadProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDWithMembers(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) reload(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignees", "Assignees.User", "Watchers", "SubTasks")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}
