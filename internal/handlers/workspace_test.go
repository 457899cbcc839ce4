package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tasktribe/tasktribe-api/internal/auth"
	"github.com/tasktribe/tasktribe-api/internal/database"
	"github.com/tasktribe/tasktribe-api/internal/middleware"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"github.com/tasktribe/tasktribe-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type workspaceTestEnv struct {
	router   *gin.Engine
	tokens   *auth.TokenService
	userRepo repository.UserRepository
}

func setupWorkspaceTestEnv(t *testing.T) *workspaceTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
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

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	tokens := auth.NewTokenService("test-secret")
	recorder := services.NewActivityRecorder(activityRepo, 0)

	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo, projectRepo, tokens, nullMailer{}, recorder, "http://localhost:5173")
	statsService := services.NewStatsService(workspaceRepo, projectRepo)
	handler := NewWorkspaceHandler(workspaceService, statsService)

	r := gin.New()
	workspaces := r.Group("/api-v1/workspaces")
	{
		workspaces.GET("/:workspaceId/invite", handler.GetInviteDetails)
		protected := workspaces.Group("")
		protected.Use(middleware.RequireAuth(tokens))
		{
			protected.POST("", handler.CreateWorkspace)
			protected.GET("/:workspaceId", handler.GetWorkspace)
			protected.GET("/:workspaceId/stats", handler.GetWorkspaceStats)
			protected.POST("/:workspaceId/invite-member", handler.InviteMember)
		}
	}

	return &workspaceTestEnv{
		router:   r,
		tokens:   tokens,
		userRepo: userRepo,
	}
}

func (env *workspaceTestEnv) createUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordHash: "x", IsEmailVerified: true}
	require.NoError(t, env.userRepo.Create(user))

	token, _, err := env.tokens.Sign(auth.Claims{UserID: user.ID, Purpose: auth.PurposeLogin}, auth.LoginTTL)
	require.NoError(t, err)
	return user, token
}

func (env *workspaceTestEnv) do(t *testing.T, method, path string, payload any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestWorkspaceHandler_CreateAndGet(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	_, aliceToken := env.createUser(t, "Alice", "alice@example.com")
	_, bobToken := env.createUser(t, "Bob", "bob@example.com")

	w := env.do(t, http.MethodPost, "/api-v1/workspaces", map[string]string{
		"name":  "Acme",
		"color": "#EF4444",
	}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var ws struct {
		ID uint64 `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ws))
	wsPath := fmt.Sprintf("/api-v1/workspaces/%d", ws.ID)

	// Non-members are forbidden; the creator is not.
	w = env.do(t, http.MethodGet, wsPath, nil, bobToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, wsPath, nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, wsPath+"/stats", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWorkspaceHandler_InviteUnknownEmail(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	_, aliceToken := env.createUser(t, "Alice", "alice@example.com")

	w := env.do(t, http.MethodPost, "/api-v1/workspaces", map[string]string{"name": "Acme"}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var ws struct {
		ID uint64 `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ws))

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api-v1/workspaces/%d/invite-member", ws.ID), map[string]string{
		"email": "ghost@example.com",
	}, aliceToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceHandler_PublicInviteDetails(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	_, aliceToken := env.createUser(t, "Alice", "alice@example.com")

	w := env.do(t, http.MethodPost, "/api-v1/workspaces", map[string]string{"name": "Acme"}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var ws struct {
		ID uint64 `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ws))

	// The invite landing page needs no bearer.
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api-v1/workspaces/%d/invite", ws.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var invite struct {
		Name        string `json:"name"`
		MemberCount int    `json:"memberCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invite))
	require.Equal(t, "Acme", invite.Name)
	require.Equal(t, 1, invite.MemberCount)
}
