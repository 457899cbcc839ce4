package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tasktribe/tasktribe-api/internal/auth"
)

func newAuthService(env *serviceTestEnv) *AuthService {
	tokens := auth.NewTokenService("test-secret")
	return NewAuthService(env.userRepo, env.verificationRepo, tokens, env.mailer, "http://localhost:5173")
}

func TestRegisterLoginVerifyRoundTrip(t *testing.T) {
	env := setupServiceTest(t)
	svc := newAuthService(env)

	err := svc.Register(RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "hunter2boogaloo",
	})
	require.NoError(t, err)
	require.Len(t, env.mailer.sent, 1)

	// Email is stored lowercased.
	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.False(t, user.IsEmailVerified)

	// Login before verification is rejected; the old link is still live so
	// no new email goes out.
	_, _, err = svc.Login("alice@example.com", "hunter2boogaloo")
	require.ErrorIs(t, err, ErrEmailNotVerified)
	require.Len(t, env.mailer.sent, 1)

	verification, err := env.verificationRepo.FindByUserID(user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(verification.Token))

	// The row is single-use.
	_, err = env.verificationRepo.FindByUserID(user.ID)
	require.Error(t, err)

	logged, token, err := svc.Login("alice@example.com", "hunter2boogaloo")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, logged.LastLogin)
	require.True(t, logged.IsEmailVerified)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupServiceTest(t)
	svc := newAuthService(env)

	input := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "hunter2boogaloo"}
	require.NoError(t, svc.Register(input))
	require.ErrorIs(t, svc.Register(input), ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupServiceTest(t)
	svc := newAuthService(env)

	require.NoError(t, svc.Register(RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter2boogaloo",
	}))
	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	verification, err := env.verificationRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(verification.Token))

	_, _, err = svc.Login("alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyEmailTwice(t *testing.T) {
	env := setupServiceTest(t)
	svc := newAuthService(env)

	require.NoError(t, svc.Register(RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter2boogaloo",
	}))
	user, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	verification, err := env.verificationRepo.FindByUserID(user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(verification.Token))
	require.ErrorIs(t, svc.VerifyEmail(verification.Token), ErrAlreadyVerified)
}

func TestVerifyEmailBogusToken(t *testing.T) {
	env := setupServiceTest(t)
	svc := newAuthService(env)

	require.ErrorIs(t, svc.VerifyEmail("not-a-token"), ErrTokenInvalid)
}

func TestResetPasswordFlow(t *testing.T) {
	env := setupServiceTest(t)
	svc := newAuthService(env)
	alice := env.createUser(t, "Alice", "alice@example.com")

	require.NoError(t, svc.RequestPasswordReset("alice@example.com"))
	// Request while one is pending is rejected.
	require.ErrorIs(t, svc.RequestPasswordReset("alice@example.com"), ErrResetRequestPending)

	verification, err := env.verificationRepo.FindByUserID(alice.ID)
	require.NoError(t, err)

	err = svc.ResetPassword(verification.Token, "newpassword123", "different")
	require.ErrorIs(t, err, ErrPasswordsDoNotMatch)

	require.NoError(t, svc.ResetPassword(verification.Token, "newpassword123", "newpassword123"))

	_, token, err := svc.Login("alice@example.com", "newpassword123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestResetPasswordUnknownOrUnverified(t *testing.T) {
	env := setupServiceTest(t)
	svc := newAuthService(env)

	require.ErrorIs(t, svc.RequestPasswordReset("ghost@example.com"), ErrUserNotRegistered)

	require.NoError(t, svc.Register(RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "hunter2boogaloo",
	}))
	require.ErrorIs(t, svc.RequestPasswordReset("bob@example.com"), ErrEmailNotVerified)
}

func TestRegisterEmailSendFailure(t *testing.T) {
	env := setupServiceTest(t)
	env.mailer.fail = true
	svc := newAuthService(env)

	err := svc.Register(RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter2boogaloo",
	})
	require.ErrorIs(t, err, ErrEmailSendFailed)
}
