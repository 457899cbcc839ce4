package repository

import (
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// VerificationRepository defines the interface for single-use verification
// token rows.
type VerificationRepository interface {
	// Create creates a verification row
	Create(v *models.Verification) error

	// FindByUserID finds the live verification row for a user, if any
	FindByUserID(userID uint64) (*models.Verification, error)

	// FindByUserAndToken finds a verification row matching user and token
	FindByUserAndToken(userID uint64, token string) (*models.Verification, error)

	// Delete removes a verification row
	Delete(id uint64) error
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// CreateWithOwner creates a workspace and its owner membership atomically
	CreateWithOwner(ws *models.Workspace, member *models.WorkspaceMember) error

	// FindByIDWithMembers finds a workspace with its member roster and users
	FindByIDWithMembers(id uint64) (*models.Workspace, error)

	// ListForUser lists workspaces the user is a member of
	ListForUser(userID uint64) ([]models.Workspace, error)

	// AddMember appends a membership entry
	AddMember(member *models.WorkspaceMember) error

	// AddMemberDeletingInvite appends a membership and deletes the consumed
	// invite row in one transaction
	AddMemberDeletingInvite(member *models.WorkspaceMember, inviteID uint64) error

	// FindInvite finds the invite for a (workspace, user) pair
	FindInvite(workspaceID, userID uint64) (*models.WorkspaceInvite, error)

	// CreateInvite creates an invite row
	CreateInvite(inv *models.WorkspaceInvite) error

	// DeleteInvite removes an invite row
	DeleteInvite(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithMembers creates a project and its member roster atomically
	CreateWithMembers(p *models.Project, members []models.ProjectMember) error

	// FindByID finds a project by ID without loading relations
	FindByID(id uint64) (*models.Project, error)

	// FindByIDWithMembers finds a project with its member roster and users
	FindByIDWithMembers(id uint64) (*models.Project, error)

	// ListByWorkspace lists a workspace's non-archived projects, newest first
	ListByWorkspace(workspaceID uint64) ([]models.Project, error)

	// ListByWorkspaceWithTasks lists all of a workspace's projects with
	// their tasks loaded (stats read path)
	ListByWorkspaceWithTasks(workspaceID uint64) ([]models.Project, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task together with its assignee rows
	Create(task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject lists a project's non-archived tasks, newest first
	ListByProject(projectID uint64) ([]models.Task, error)

	// ListAssignedTo lists non-archived tasks assigned to a user
	ListAssignedTo(userID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// ReplaceAssignees replaces the assignee set in the given order
	ReplaceAssignees(taskID uint64, userIDs []uint64) error

	// ToggleWatcher toggles the user in the watcher set and reports whether
	// the user is watching afterwards
	ToggleWatcher(taskID, userID uint64) (bool, error)

	// CreateSubTask appends an embedded subtask
	CreateSubTask(st *models.SubTask) error

	// FindSubTask finds a subtask by task and subtask id
	FindSubTask(taskID, subTaskID uint64) (*models.SubTask, error)

	// UpdateSubTask updates a subtask
	UpdateSubTask(st *models.SubTask) error

	// CreateComment appends a comment to a task
	CreateComment(comment *models.Comment) error

	// ListComments lists a page of a task's comments, newest first
	ListComments(taskID uint64, params utils.PaginationParams) ([]models.Comment, error)
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Create appends an activity row
	Create(entry *models.ActivityLog) error

	// ListByResource lists a page of a resource's activity, newest first
	ListByResource(resourceType models.ResourceType, resourceID uint64, params utils.PaginationParams) ([]models.ActivityLog, error)
}
