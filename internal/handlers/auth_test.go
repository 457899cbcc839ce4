package handlers

import (
	"bytes"
	"encoding/json"
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

// nullMailer accepts every send.
type nullMailer struct{}

func (nullMailer) Send(to, subject, htmlBody string) error { return nil }

type authTestEnv struct {
	db               *gorm.DB
	router           *gin.Engine
	tokens           *auth.TokenService
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
}

func setupAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Verification{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	tokens := auth.NewTokenService("test-secret")
	authService := services.NewAuthService(userRepo, verificationRepo, tokens, nullMailer{}, "http://localhost:5173")
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api-v1/auth/register", handler.Register)
	r.POST("/api-v1/auth/login", handler.Login)
	r.POST("/api-v1/auth/verify-email", handler.VerifyEmail)
	r.POST("/api-v1/auth/reset-password", handler.ResetPassword)
	r.GET("/api-v1/auth/me", middleware.RequireAuth(tokens), handler.GetCurrentUser)

	return &authTestEnv{
		db:               db,
		router:           r,
		tokens:           tokens,
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
	}
}

func (env *authTestEnv) do(t *testing.T, method, path string, payload any, bearer string) *httptest.ResponseRecorder {
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

func TestAuthEndpointsRoundTrip(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodPost, "/api-v1/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "hunter2boogaloo",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Unverified login is a business-rule rejection.
	w = env.do(t, http.MethodPost, "/api-v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2boogaloo",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	require.NotEmpty(t, errBody["message"])

	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	verification, err := env.verificationRepo.FindByUserID(user.ID)
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/api-v1/auth/verify-email", map[string]string{
		"token": verification.Token,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api-v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2boogaloo",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var loginBody struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginBody))
	require.NotEmpty(t, loginBody.Token)
	require.Equal(t, "alice@example.com", loginBody.User.Email)

	// The issued bearer works against a protected endpoint.
	w = env.do(t, http.MethodGet, "/api-v1/auth/me", nil, loginBody.Token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := setupAuthTestEnv(t)

	// Short name fails binding.
	w := env.do(t, http.MethodPost, "/api-v1/auth/register", map[string]string{
		"name":     "Al",
		"email":    "al@example.com",
		"password": "hunter2boogaloo",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Short password fails the explicit length check.
	w = env.do(t, http.MethodPost, "/api-v1/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordWithoutRequestIsNotFound(t *testing.T) {
	env := setupAuthTestEnv(t)

	user := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", IsEmailVerified: true}
	require.NoError(t, env.userRepo.Create(user))

	// A well-formed reset token with no matching verification row: the
	// reset was never requested (or already consumed).
	token, _, err := env.tokens.Sign(auth.Claims{UserID: user.ID, Purpose: auth.PurposeResetPassword}, auth.ResetPasswordTTL)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api-v1/auth/reset-password", map[string]string{
		"token":           token,
		"newPassword":     "hunter2boogaloo",
		"confirmPassword": "hunter2boogaloo",
	}, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedEndpointRejectsBadBearer(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodGet, "/api-v1/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api-v1/auth/me", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A structurally valid token with the wrong purpose is also rejected.
	token, _, err := env.tokens.Sign(auth.Claims{UserID: 1, Purpose: auth.PurposeResetPassword}, auth.ResetPasswordTTL)
	require.NoError(t, err)
	w = env.do(t, http.MethodGet, "/api-v1/auth/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
