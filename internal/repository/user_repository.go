package repository

import (
	"github.com/tasktribe/tasktribe-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// GormVerificationRepository is a GORM implementation of VerificationRepository
type GormVerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new VerificationRepository
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &GormVerificationRepository{db: db}
}

// Create creates a verification row
func (r *GormVerificationRepository) Create(v *models.Verification) error {
	return r.db.Create(v).Error
}

// FindByUserID finds the live verification row for a user, if any
func (r *GormVerificationRepository) FindByUserID(userID uint64) (*models.Verification, error) {
	var v models.Verification
	if err := r.db.Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByUserAndToken finds a verification row matching user and token
func (r *GormVerificationRepository) FindByUserAndToken(userID uint64, token string) (*models.Verification, error) {
	var v models.Verification
	if err := r.db.Where("user_id = ? AND token = ?", userID, token).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete removes a verification row
func (r *GormVerificationRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Verification{}, id).Error
}
