package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasktribe/tasktribe-api/internal/auth"
	"github.com/tasktribe/tasktribe-api/internal/authz"
	"github.com/tasktribe/tasktribe-api/internal/mailer"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound      = errors.New("workspace not found")
	ErrWorkspaceNameRequired  = errors.New("workspace name cannot be empty")
	ErrNotWorkspaceMember     = errors.New("you are not a member of this workspace")
	ErrCannotInvite           = errors.New("only workspace admins and owners can invite members")
	ErrInviteeNotFound        = errors.New("no registered user with this email")
	ErrAlreadyWorkspaceMember = errors.New("user is already a member of this workspace")
	ErrInvitePending          = errors.New("an invite for this user is already pending")
	ErrInviteNotFound         = errors.New("invite not found")
	ErrInviteExpired          = errors.New("invite has expired")
	ErrInviteTokenInvalid     = errors.New("invalid invite token")
	ErrInvalidWorkspaceRole   = errors.New("invalid workspace role")
)

// WorkspaceService provides business logic for workspace operations,
// including the invite flow.
type WorkspaceService struct {
	wsRepo      repository.WorkspaceRepository
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	tokens      *auth.TokenService
	mail        mailer.Mailer
	activity    *ActivityRecorder
	frontendURL string
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(wsRepo repository.WorkspaceRepository, userRepo repository.UserRepository, projectRepo repository.ProjectRepository, tokens *auth.TokenService, mail mailer.Mailer, activity *ActivityRecorder, frontendURL string) *WorkspaceService {
	return &WorkspaceService{
		wsRepo:      wsRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		tokens:      tokens,
		mail:        mail,
		activity:    activity,
		frontendURL: frontendURL,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	Name        string
	Description string
	Color       string
	OwnerID     uint64
}

// CreateWorkspace creates a workspace whose creator becomes the sole member
// with role owner.
func (s *WorkspaceService) CreateWorkspace(input CreateWorkspaceInput) (*models.Workspace, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrWorkspaceNameRequired
	}

	ws := &models.Workspace{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		OwnerID:     input.OwnerID,
	}
	if ws.Color == "" {
		ws.Color = "#3B82F6"
	}

	member := &models.WorkspaceMember{
		UserID:   input.OwnerID,
		Role:     models.WorkspaceRoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.wsRepo.CreateWithOwner(ws, member); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	s.activity.Record(input.OwnerID, models.ActionCreatedWorkspace, models.ResourceWorkspace, ws.ID, models.ActivityDetails{
		Description: fmt.Sprintf("created workspace %q", ws.Name),
	})

	ws.Members = []models.WorkspaceMember{*member}
	return ws, nil
}

// ListWorkspaces returns the workspaces the caller belongs to.
func (s *WorkspaceService) ListWorkspaces(userID uint64) ([]models.Workspace, error) {
	workspaces, err := s.wsRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// GetWorkspace returns a workspace with its member roster, member-only.
func (s *WorkspaceService) GetWorkspace(workspaceID, callerID uint64) (*models.Workspace, error) {
	ws, err := s.loadWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	if !authz.IsWorkspaceMember(ws, callerID) {
		return nil, ErrNotWorkspaceMember
	}

	return ws, nil
}

// GetWorkspaceProjects returns the workspace plus its non-archived projects,
// newest first, member-only.
func (s *WorkspaceService) GetWorkspaceProjects(workspaceID, callerID uint64) (*models.Workspace, []models.Project, error) {
	ws, err := s.loadWorkspace(workspaceID)
	if err != nil {
		return nil, nil, err
	}

	if !authz.IsWorkspaceMember(ws, callerID) {
		return nil, nil, ErrNotWorkspaceMember
	}

	projects, err := s.projectRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return ws, projects, nil
}

// InviteMemberInput represents parameters to invite a user by email.
type InviteMemberInput struct {
	WorkspaceID uint64
	CallerID    uint64
	Email       string
	Role        models.WorkspaceRole
}

// InviteMember issues a signed invite token and a matching invite row with
// the same expiry, then emails the invite link. Caller must be admin or
// owner; the invitee must already be registered.
func (s *WorkspaceService) InviteMember(input InviteMemberInput) error {
	ws, err := s.loadWorkspace(input.WorkspaceID)
	if err != nil {
		return err
	}

	role, ok := authz.WorkspaceRoleOf(ws, input.CallerID)
	if !ok {
		return ErrNotWorkspaceMember
	}
	if !authz.CanInviteToWorkspace(role) {
		return ErrCannotInvite
	}

	if input.Role == "" {
		input.Role = models.WorkspaceRoleMember
	}
	if !authz.ValidInviteRole(input.Role) {
		return ErrInvalidWorkspaceRole
	}

	invitee, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteeNotFound
		}
		return fmt.Errorf("failed to find invitee: %w", err)
	}

	if authz.IsWorkspaceMember(ws, invitee.ID) {
		return ErrAlreadyWorkspaceMember
	}

	existing, err := s.wsRepo.FindInvite(input.WorkspaceID, invitee.ID)
	if err == nil {
		if existing.ExpiresAt.After(time.Now()) {
			return ErrInvitePending
		}
		if err := s.wsRepo.DeleteInvite(existing.ID); err != nil {
			return fmt.Errorf("failed to delete expired invite: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check invite: %w", err)
	}

	token, exp, err := s.tokens.Sign(auth.Claims{
		UserID:      invitee.ID,
		Purpose:     auth.PurposeWorkspaceInvite,
		WorkspaceID: input.WorkspaceID,
		Role:        string(input.Role),
	}, auth.WorkspaceInviteTTL)
	if err != nil {
		return fmt.Errorf("failed to sign invite token: %w", err)
	}

	// Token and row must agree: acceptance validates against the row.
	if err := s.wsRepo.CreateInvite(&models.WorkspaceInvite{
		UserID:      invitee.ID,
		WorkspaceID: input.WorkspaceID,
		Token:       token,
		Role:        input.Role,
		ExpiresAt:   exp,
	}); err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}

	link := fmt.Sprintf("%s/workspace-invite/%d?tk=%s", s.frontendURL, ws.ID, token)
	body := fmt.Sprintf(`<p>You have been invited to join the %q workspace. Click <a href="%s">here</a> to accept.</p>`, ws.Name, link)
	if err := s.mail.Send(invitee.Email, "You've been invited to a TaskTribe workspace", body); err != nil {
		return ErrEmailSendFailed
	}

	return nil
}

// AcceptInviteByToken verifies the token, validates the stored invite row,
// appends the membership and deletes the invite in one transaction.
func (s *WorkspaceService) AcceptInviteByToken(token string, callerID uint64) (*models.Workspace, error) {
	claims, err := s.tokens.Verify(token, auth.PurposeWorkspaceInvite)
	if err != nil {
		return nil, ErrInviteTokenInvalid
	}
	if claims.UserID != callerID {
		return nil, ErrInviteTokenInvalid
	}

	ws, err := s.loadWorkspace(claims.WorkspaceID)
	if err != nil {
		return nil, err
	}

	// Accepting twice is a duplicate-membership rejection, not a missing
	// invite: the row is gone after the first accept.
	if authz.IsWorkspaceMember(ws, callerID) {
		return nil, ErrAlreadyWorkspaceMember
	}

	invite, err := s.wsRepo.FindInvite(claims.WorkspaceID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	// An invite expiring exactly now is already expired.
	if !invite.ExpiresAt.After(time.Now()) {
		return nil, ErrInviteExpired
	}

	member := &models.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      callerID,
		Role:        invite.Role,
		JoinedAt:    time.Now(),
	}
	if err := s.wsRepo.AddMemberDeletingInvite(member, invite.ID); err != nil {
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}

	s.activity.Record(callerID, models.ActionJoinedWorkspace, models.ResourceWorkspace, ws.ID, models.ActivityDetails{
		Description: fmt.Sprintf("joined workspace %q", ws.Name),
		Role:        string(invite.Role),
	})

	return ws, nil
}

// AcceptGenerateInvite joins the caller to a workspace as a member via the
// workspace's open invite link.
func (s *WorkspaceService) AcceptGenerateInvite(workspaceID, callerID uint64) (*models.Workspace, error) {
	ws, err := s.loadWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	if authz.IsWorkspaceMember(ws, callerID) {
		return nil, ErrAlreadyWorkspaceMember
	}

	member := &models.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      callerID,
		Role:        models.WorkspaceRoleMember,
		JoinedAt:    time.Now(),
	}
	if err := s.wsRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.activity.Record(callerID, models.ActionJoinedWorkspace, models.ResourceWorkspace, ws.ID, models.ActivityDetails{
		Description: fmt.Sprintf("joined workspace %q", ws.Name),
		Role:        string(models.WorkspaceRoleMember),
	})

	return ws, nil
}

// GetInviteDetails returns the basic workspace info shown on the invite
// landing page.
func (s *WorkspaceService) GetInviteDetails(workspaceID uint64) (*models.Workspace, error) {
	ws, err := s.wsRepo.FindByIDWithMembers(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return ws, nil
}

func (s *WorkspaceService) loadWorkspace(id uint64) (*models.Workspace, error) {
	ws, err := s.wsRepo.FindByIDWithMembers(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return ws, nil
}
