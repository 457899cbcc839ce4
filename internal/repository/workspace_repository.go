package repository

import (
	"github.com/tasktribe/tasktribe-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and its owner membership atomically
func (r *GormWorkspaceRepository) CreateWithOwner(ws *models.Workspace, member *models.WorkspaceMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}

		member.WorkspaceID = ws.ID
		return tx.Create(member).Error
	})
}

// FindByIDWithMembers finds a workspace with its member roster and users
func (r *GormWorkspaceRepository) FindByIDWithMembers(id uint64) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.
		Preload("Members").
		Preload("Members.User").
		First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// ListForUser lists workspaces the user is a member of
func (r *GormWorkspaceRepository) ListForUser(userID uint64) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	if err := r.db.
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Preload("Members").
		Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

// AddMember appends a membership entry
func (r *GormWorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

// AddMemberDeletingInvite appends a membership and deletes the consumed
// invite row in one transaction
func (r *GormWorkspaceRepository) AddMemberDeletingInvite(member *models.WorkspaceMember, inviteID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		return tx.Delete(&models.WorkspaceInvite{}, inviteID).Error
	})
}

// FindInvite finds the invite for a (workspace, user) pair
func (r *GormWorkspaceRepository) FindInvite(workspaceID, userID uint64) (*models.WorkspaceInvite, error) {
	var inv models.WorkspaceInvite
	if err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvite creates an invite row
func (r *GormWorkspaceRepository) CreateInvite(inv *models.WorkspaceInvite) error {
	return r.db.Create(inv).Error
}

// DeleteInvite removes an invite row
func (r *GormWorkspaceRepository) DeleteInvite(id uint64) error {
	return r.db.Delete(&models.WorkspaceInvite{}, id).Error
}
