package repository

import (
	"github.com/tasktribe/tasktribe-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithMembers creates a project and its member roster atomically
func (r *GormProjectRepository) CreateWithMembers(p *models.Project, members []models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		for i := range members {
			members[i].ProjectID = p.ID
		}
		return tx.Create(&members).Error
	})
}

// FindByID finds a project by ID without loading relations
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var p models.Project
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDWithMembers finds a project with its member roster and users
func (r *GormProjectRepository) FindByIDWithMembers(id uint64) (*models.Project, error) {
	var p models.Project
	if err := r.db.
		Preload("Members").
		Preload("Members.User").
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByWorkspace lists a workspace's non-archived projects, newest first
func (r *GormProjectRepository) ListByWorkspace(workspaceID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.
		Where("workspace_id = ? AND is_archived = ?", workspaceID, false).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByWorkspaceWithTasks lists all of a workspace's projects with their
// tasks loaded (stats read path)
func (r *GormProjectRepository) ListByWorkspaceWithTasks(workspaceID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.
		Where("workspace_id = ?", workspaceID).
		Preload("Tasks").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
