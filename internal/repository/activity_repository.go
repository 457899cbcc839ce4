package repository

import (
	"github.com/tasktribe/tasktribe-api/internal/database"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/utils"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity row
func (r *GormActivityRepository) Create(entry *models.ActivityLog) error {
	return r.db.Create(entry).Error
}

// ListByResource lists a page of a resource's activity, newest first
func (r *GormActivityRepository) ListByResource(resourceType models.ResourceType, resourceID uint64, params utils.PaginationParams) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	if err := r.db.
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(params)).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
