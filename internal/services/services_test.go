package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasktribe/tasktribe-api/internal/constants"
	"github.com/tasktribe/tasktribe-api/internal/database"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"github.com/tasktribe/tasktribe-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeMailer records sent mail instead of talking to SMTP.
type fakeMailer struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.fail {
		return errSendFailed
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

var errSendFailed = &mailerError{}

type mailerError struct{}

func (e *mailerError) Error() string { return "smtp unavailable" }

type serviceTestEnv struct {
	db               *gorm.DB
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	workspaceRepo    repository.WorkspaceRepository
	projectRepo      repository.ProjectRepository
	taskRepo         repository.TaskRepository
	activityRepo     repository.ActivityRepository
	recorder         *ActivityRecorder
	mailer           *fakeMailer
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Verification{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.WorkspaceInvite{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskAssignee{},
		&models.TaskWatcher{},
		&models.SubTask{},
		&models.Comment{},
		&models.ActivityLog{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	activityRepo := repository.NewActivityRepository(db)

	return &serviceTestEnv{
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		verificationRepo: repository.NewVerificationRepository(db),
		workspaceRepo:    repository.NewWorkspaceRepository(db),
		projectRepo:      repository.NewProjectRepository(db),
		taskRepo:         repository.NewTaskRepository(db),
		activityRepo:     activityRepo,
		// Synchronous so assertions can run right after the mutation.
		recorder: NewActivityRecorder(activityRepo, 0),
		mailer:   &fakeMailer{},
	}
}

func (env *serviceTestEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:            name,
		Email:           email,
		PasswordHash:    "x",
		IsEmailVerified: true,
	}
	require.NoError(t, env.userRepo.Create(user))
	return user
}

func (env *serviceTestEnv) activityRows(t *testing.T, resourceType models.ResourceType, resourceID uint64) []models.ActivityLog {
	t.Helper()
	rows, err := env.activityRepo.ListByResource(resourceType, resourceID, firstPage())
	require.NoError(t, err)
	return rows
}

func timePtr(v time.Time) *time.Time { return &v }

func firstPage() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: constants.DefaultPageSize}
}
