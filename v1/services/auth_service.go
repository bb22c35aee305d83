package services

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
)

const minPasswordLength = 8

// TokenIssuer signs access tokens for authenticated users. Implemented by the
// JWT middleware so signing and verification share one secret.
type TokenIssuer interface {
	IssueToken(user *models.User, ttl time.Duration) (string, time.Time, error)
}

// AuthService handles login and user account administration
type AuthService struct {
	db       *gorm.DB
	issuer   TokenIssuer
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, issuer TokenIssuer, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{db: db, issuer: issuer, tokenTTL: tokenTTL}
}

// Login verifies credentials and returns a signed access token. Invalid
// email, unknown account, disabled account, and wrong password all produce
// the same unauthorized response so the endpoint can not be used to probe
// for registered addresses.
func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apierrors.ValidationError("MISSING_CREDENTIALS", "email and password are required")
	}

	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		slog.Warn("Login failed: unknown email", "email", email)
		return nil, apierrors.UnauthorizedError("Invalid email or password")
	}

	if !user.IsActive {
		slog.Warn("Login failed: account disabled", "user_id", user.UserID)
		return nil, apierrors.UnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Login failed: wrong password", "user_id", user.UserID)
		return nil, apierrors.UnauthorizedError("Invalid email or password")
	}

	token, expiresAt, err := s.issuer.IssueToken(&user, s.tokenTTL)
	if err != nil {
		return nil, apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "TOKEN_SIGNING_FAILED",
			"Failed to issue access token", http.StatusInternalServerError, err)
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		// Best effort; login still succeeds
		slog.Warn("Failed to update last login timestamp", "user_id", user.UserID, "error", err)
	}
	user.LastLoginAt = &now

	slog.Info("User logged in", "user_id", user.UserID, "roles", user.Roles)

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      &user,
	}, nil
}

// RegisterUser creates a new login account. Only admins reach this operation;
// the authorization middleware enforces that.
func (s *AuthService) RegisterUser(req *models.RegisterUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apierrors.ValidationError("MISSING_EMAIL", "email is required")
	}
	if len(email) > models.MaxEmailLength {
		return nil, apierrors.ValidationError("INVALID_EMAIL", "email is too long")
	}
	if !strings.Contains(email, "@") {
		return nil, apierrors.ValidationError("INVALID_EMAIL", "email is not a valid address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apierrors.ValidationError("WEAK_PASSWORD", "password must be at least 8 characters")
	}

	roles := models.StringSlice{models.RoleMember.String()}
	if len(req.Roles) > 0 {
		roles = models.StringSlice{}
		for _, roleStr := range req.Roles {
			if !models.Role(roleStr).IsValid() {
				return nil, apierrors.ValidationError("INVALID_ROLE", "unknown role: "+roleStr)
			}
			roles = append(roles, roleStr)
		}
	}

	if req.MemberID != nil {
		var member models.Member
		if err := s.db.First(&member, "member_id = ?", *req.MemberID).Error; err != nil {
			return nil, apierrors.HandleDatabaseError(err, "Member")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "PASSWORD_HASH_FAILED",
			"Failed to hash password", http.StatusInternalServerError, err)
	}

	user := models.User{
		UserID:       "usr_" + uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		MemberID:     req.MemberID,
		IsActive:     true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "User")
	}

	slog.Info("Registered user", "user_id", user.UserID, "roles", user.Roles)
	return &user, nil
}

// GetUserByID retrieves a user account by ID
func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "User")
	}
	return &user, nil
}
