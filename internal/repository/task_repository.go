package repository

import (
	"errors"

	"github.com/tasktribe/tasktribe-api/internal/database"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task together with its assignee rows
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		if len(assigneeIDs) == 0 {
			return nil
		}

		assignees := make([]models.TaskAssignee, len(assigneeIDs))
		for i, userID := range assigneeIDs {
			assignees[i] = models.TaskAssignee{
				TaskID:   task.ID,
				UserID:   userID,
				Position: i,
			}
		}
		return tx.Create(&assignees).Error
	})
}

// FindByID finds a task by ID with optional preloading. Assignee preloads
// keep the positional order of the last replace.
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		if p == "Assignees" {
			query = query.Preload(p, func(db *gorm.DB) *gorm.DB {
				return db.Order("task_assignees.position ASC")
			})
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByProject lists a project's non-archived tasks, newest first
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("project_id = ? AND is_archived = ?", projectID, false).
		Preload("Assignees", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_assignees.position ASC")
		}).
		Preload("Assignees.User").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAssignedTo lists non-archived tasks assigned to a user
func (r *GormTaskRepository) ListAssignedTo(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ? AND tasks.is_archived = ?", userID, false).
		Preload("Project").
		Order("tasks.created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists the task's own columns. Association rows are managed by
// the dedicated methods below, never by Save.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// ReplaceAssignees replaces the assignee set in the given order
func (r *GormTaskRepository) ReplaceAssignees(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).
			Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}

		if len(userIDs) == 0 {
			return nil
		}

		assignees := make([]models.TaskAssignee, len(userIDs))
		for i, userID := range userIDs {
			assignees[i] = models.TaskAssignee{
				TaskID:   taskID,
				UserID:   userID,
				Position: i,
			}
		}
		return tx.Create(&assignees).Error
	})
}

// ToggleWatcher toggles the user in the watcher set and reports whether the
// user is watching afterwards
func (r *GormTaskRepository) ToggleWatcher(taskID, userID uint64) (bool, error) {
	var watching bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.TaskWatcher
		err := tx.Where("task_id = ? AND user_id = ?", taskID, userID).
			First(&existing).Error
		if err == nil {
			watching = false
			return tx.Where("task_id = ? AND user_id = ?", taskID, userID).
				Delete(&models.TaskWatcher{}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		watching = true
		return tx.Create(&models.TaskWatcher{TaskID: taskID, UserID: userID}).Error
	})
	return watching, err
}

// CreateSubTask appends an embedded subtask
func (r *GormTaskRepository) CreateSubTask(st *models.SubTask) error {
	return r.db.Create(st).Error
}

// FindSubTask finds a subtask by task and subtask id
func (r *GormTaskRepository) FindSubTask(taskID, subTaskID uint64) (*models.SubTask, error) {
	var st models.SubTask
	if err := r.db.Where("id = ? AND task_id = ?", subTaskID, taskID).
		First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateSubTask updates a subtask
func (r *GormTaskRepository) UpdateSubTask(st *models.SubTask) error {
	return r.db.Save(st).Error
}

// CreateComment appends a comment to a task
func (r *GormTaskRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListComments lists a page of a task's comments, newest first
func (r *GormTaskRepository) ListComments(taskID uint64, params utils.PaginationParams) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.
		Where("task_id = ?", taskID).
		Preload("Author").
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(params)).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
