package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasktribe/tasktribe-api/internal/auth"
	"github.com/tasktribe/tasktribe-api/internal/mailer"
	"github.com/tasktribe/tasktribe-api/internal/models"
	"github.com/tasktribe/tasktribe-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email address already in use")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotRegistered    = errors.New("user is not registered with this email")
	ErrEmailNotVerified     = errors.New("email not verified, please check your email for the verification link")
	ErrVerificationResent   = errors.New("verification email sent, please check and verify your account")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrAlreadyVerified      = errors.New("email already verified")
	ErrUserNotFound         = errors.New("user not found")
	ErrVerificationNotFound = errors.New("verification record not found")
	ErrPasswordsDoNotMatch  = errors.New("passwords do not match")
	ErrResetRequestPending  = errors.New("reset password request already sent to email")
	ErrEmailSendFailed      = errors.New("failed to send email")
)

// AuthService handles registration, email verification, login and password
// reset.
type AuthService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	tokens           *auth.TokenService
	mail             mailer.Mailer
	frontendURL      string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, verificationRepo repository.VerificationRepository, tokens *auth.TokenService, mail mailer.Mailer, frontendURL string) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		tokens:           tokens,
		mail:             mail,
		frontendURL:      frontendURL,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an unverified user and emails a verification link. The
// signed token and the stored verification row carry the same expiry.
func (s *AuthService) Register(input RegisterInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return s.sendVerification(user)
}

// Login verifies credentials and returns the user plus a login token. An
// unverified user gets a fresh verification email when the old link has
// expired.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsEmailVerified {
		existing, err := s.verificationRepo.FindByUserID(user.ID)
		if err == nil && existing.ExpiresAt.After(time.Now()) {
			return nil, "", ErrEmailNotVerified
		}
		if err == nil {
			if err := s.verificationRepo.Delete(existing.ID); err != nil {
				return nil, "", fmt.Errorf("failed to delete stale verification: %w", err)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("failed to check verification: %w", err)
		}

		if err := s.sendVerification(user); err != nil {
			return nil, "", err
		}
		return nil, "", ErrVerificationResent
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Sign(auth.Claims{
		UserID:  user.ID,
		Purpose: auth.PurposeLogin,
	}, auth.LoginTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign login token: %w", err)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}

	return user, token, nil
}

// VerifyEmail consumes an email-verification token and marks the user
// verified.
func (s *AuthService) VerifyEmail(token string) error {
	claims, err := s.tokens.Verify(token, auth.PurposeEmailVerification)
	if err != nil {
		return ErrTokenInvalid
	}

	// The verification row is deleted on first success, so the
	// already-verified check has to come before the row lookup or a second
	// verify would report a bad token.
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	verification, err := s.verificationRepo.FindByUserAndToken(claims.UserID, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("failed to find verification: %w", err)
	}

	if verification.ExpiresAt.Before(time.Now()) {
		return ErrTokenExpired
	}

	user.IsEmailVerified = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return s.verificationRepo.Delete(verification.ID)
}

// RequestPasswordReset emails a reset link for a verified account.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotRegistered
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsEmailVerified {
		return ErrEmailNotVerified
	}

	existing, err := s.verificationRepo.FindByUserID(user.ID)
	if err == nil {
		if existing.ExpiresAt.After(time.Now()) {
			return ErrResetRequestPending
		}
		if err := s.verificationRepo.Delete(existing.ID); err != nil {
			return fmt.Errorf("failed to delete stale verification: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check verification: %w", err)
	}

	token, exp, err := s.tokens.Sign(auth.Claims{
		UserID:  user.ID,
		Purpose: auth.PurposeResetPassword,
	}, auth.ResetPasswordTTL)
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}

	if err := s.verificationRepo.Create(&models.Verification{
		UserID:    user.ID,
		Token:     token,
		Purpose:   auth.PurposeResetPassword,
		ExpiresAt: exp,
	}); err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password</p>`, link)
	if err := s.mail.Send(user.Email, "Reset your password", body); err != nil {
		return ErrEmailSendFailed
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the password.
func (s *AuthService) ResetPassword(token, newPassword, confirmPassword string) error {
	claims, err := s.tokens.Verify(token, auth.PurposeResetPassword)
	if err != nil {
		return ErrTokenInvalid
	}

	verification, err := s.verificationRepo.FindByUserAndToken(claims.UserID, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVerificationNotFound
		}
		return fmt.Errorf("failed to find verification: %w", err)
	}

	if verification.ExpiresAt.Before(time.Now()) {
		return ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if newPassword != confirmPassword {
		return ErrPasswordsDoNotMatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.verificationRepo.Delete(verification.ID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) sendVerification(user *models.User) error {
	token, exp, err := s.tokens.Sign(auth.Claims{
		UserID:  user.ID,
		Purpose: auth.PurposeEmailVerification,
	}, auth.EmailVerificationTTL)
	if err != nil {
		return fmt.Errorf("failed to sign verification token: %w", err)
	}

	if err := s.verificationRepo.Create(&models.Verification{
		UserID:    user.ID,
		Token:     token,
		Purpose:   auth.PurposeEmailVerification,
		ExpiresAt: exp,
	}); err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email</p>`, link)
	if err := s.mail.Send(user.Email, "Verify your email", body); err != nil {
		return ErrEmailSendFailed
	}

	return nil
}
