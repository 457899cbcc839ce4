package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasktribe/tasktribe-api/internal/authz"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectTitleMissing  = errors.New("project title is required")
	ErrNotProjectMember     = errors.New("you are not a member of this project")
	ErrInvalidProjectRole   = errors.New("invalid project role")
	ErrInvalidProjectStatus = errors.New("invalid project status")
)

var validProjectStatuses = map[models.ProjectStatus]bool{
	models.ProjectStatusPlanning:   true,
	models.ProjectStatusInProgress: true,
	models.ProjectStatusOnHold:     true,
	models.ProjectStatusCompleted:  true,
	models.ProjectStatusCancelled:  true,
}

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	wsRepo      repository.WorkspaceRepository
	taskRepo    repository.TaskRepository
	activity    *ActivityRecorder
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, wsRepo repository.WorkspaceRepository, taskRepo repository.TaskRepository, activity *ActivityRecorder) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		wsRepo:      wsRepo,
		taskRepo:    taskRepo,
		activity:    activity,
	}
}

// ProjectMemberInput names a member to place on a new project.
type ProjectMemberInput struct {
	UserID uint64
	Role   models.ProjectRole
}

// CreateProjectInput represents parameters to create a project.
type CreateProjectInput struct {
	WorkspaceID uint64
	CallerID    uint64
	Title       string
	Description string
	Status      models.ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	Tags        string
	Members     []ProjectMemberInput
}

// CreateProject creates a project inside a workspace the caller belongs to.
// Without an explicit member list the creator becomes the sole manager.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrProjectTitleMissing
	}

	ws, err := s.wsRepo.FindByIDWithMembers(input.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	if !authz.IsWorkspaceMember(ws, input.CallerID) {
		return nil, ErrNotWorkspaceMember
	}

	var members []models.ProjectMember
	if len(input.Members) > 0 {
		members = make([]models.ProjectMember, len(input.Members))
		for i, m := range input.Members {
			if m.Role == "" {
				m.Role = models.ProjectRoleContributor
			}
			if !authz.ValidProjectRole(m.Role) {
				return nil, ErrInvalidProjectRole
			}
			members[i] = models.ProjectMember{
				UserID:   m.UserID,
				Role:     m.Role,
				JoinedAt: time.Now(),
			}
		}
	} else {
		members = []models.ProjectMember{{
			UserID:   input.CallerID,
			Role:     models.ProjectRoleManager,
			JoinedAt: time.Now(),
		}}
	}

	var tags []string
	for _, tag := range strings.Split(input.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	if !validProjectStatuses[status] {
		return nil, ErrInvalidProjectStatus
	}

	project := &models.Project{
		WorkspaceID: input.WorkspaceID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		Tags:        tags,
		CreatedByID: input.CallerID,
	}

	if err := s.projectRepo.CreateWithMembers(project, members); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.activity.Record(input.CallerID, models.ActionCreatedProject, models.ResourceProject, project.ID, models.ActivityDetails{
		Description: fmt.Sprintf("created project %q", project.Title),
	})

	project.Members = members
	return project, nil
}

// GetProject returns a project's detail, project-member-only.
func (s *ProjectService) GetProject(projectID, callerID uint64) (*models.Project, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, ErrNotProjectMember
	}

	return project, nil
}

// GetProjectTasks returns the project and its non-archived tasks, newest
// first, project-member-only.
func (s *ProjectService) GetProjectTasks(projectID, callerID uint64) (*models.Project, []models.Task, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, nil, err
	}

	if !authz.IsProjectMember(project, callerID) {
		return nil, nil, ErrNotProjectMember
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return project, tasks, nil
}

func (s *ProjectService) loadProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDWithMembers(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
