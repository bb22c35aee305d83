package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/churchops/church-backend/v1/models"
	authutils "github.com/churchops/church-backend/v1/utils"
)

// JWTAuthConfig contains configuration for JWT authentication
type JWTAuthConfig struct {
	Secret           string
	ExpectedIssuer   string
	ExpectedAudience string
	SkipPaths        []string
}

// Validate checks that the configuration is usable
func (c JWTAuthConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	if len(c.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 bytes, got %d", len(c.Secret))
	}
	return nil
}

// JWTAuthMiddleware validates bearer tokens issued by the auth service
type JWTAuthMiddleware struct {
	config JWTAuthConfig
}

// NewJWTAuthMiddleware creates a new JWT authentication middleware
func NewJWTAuthMiddleware(config JWTAuthConfig) *JWTAuthMiddleware {
	if len(config.SkipPaths) == 0 {
		config.SkipPaths = []string{
			"/health",
			"/metrics",
			"/api/v1/auth/login",
		}
	}
	return &JWTAuthMiddleware{config: config}
}

// AuthenticateJWT returns a middleware function that validates JWT tokens
func (j *JWTAuthMiddleware) AuthenticateJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if j.shouldSkipAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := authutils.ExtractBearerToken(r)
		if err != nil {
			slog.Warn("Failed to extract bearer token", "error", err, "path", r.URL.Path, "method", r.Method)
			authutils.RespondWithError(w, http.StatusUnauthorized, "Invalid or missing authorization header")
			return
		}

		user, authCtx, err := j.validateToken(tokenString)
		if err != nil {
			slog.Warn("Token validation failed", "error", err, "path", r.URL.Path, "method", r.Method)
			authutils.RespondWithError(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		if user.IsTokenExpired() {
			slog.Warn("Token is expired", "expiry", user.ExpiresAt, "user", user.Email)
			authutils.RespondWithError(w, http.StatusUnauthorized, "Access token has expired")
			return
		}

		ctx := authutils.SetAuthenticatedUser(r.Context(), user)
		ctx = authutils.SetAuthContext(ctx, authCtx)

		slog.Debug("User authenticated",
			"user_id", user.UserID,
			"roles", user.Roles,
			"path", r.URL.Path,
			"method", r.Method)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validateToken validates a JWT token and returns the authenticated user
func (j *JWTAuthMiddleware) validateToken(tokenString string) (*models.AuthenticatedUser, *models.AuthContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.config.Secret), nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, fmt.Errorf("invalid token claims")
	}

	if err := j.validateStandardClaims(claims); err != nil {
		return nil, nil, fmt.Errorf("claim validation failed: %w", err)
	}

	user := models.NewAuthenticatedUser(claims)

	authCtx := &models.AuthContext{
		User:        user,
		Token:       tokenString,
		IssuedBy:    claims.Issuer,
		Audience:    claims.Audience,
		Permissions: user.GetPermissions(),
	}

	return user, authCtx, nil
}

// validateStandardClaims validates the registered JWT claims beyond what the
// parser already enforces
func (j *JWTAuthMiddleware) validateStandardClaims(claims *models.UserClaims) error {
	if j.config.ExpectedIssuer != "" && claims.Issuer != j.config.ExpectedIssuer {
		return fmt.Errorf("invalid issuer: expected %s, got %s", j.config.ExpectedIssuer, claims.Issuer)
	}

	if j.config.ExpectedAudience != "" && !containsAudience(claims.Audience, j.config.ExpectedAudience) {
		return fmt.Errorf("invalid audience: expected %s, got %v", j.config.ExpectedAudience, claims.Audience)
	}

	if claims.Email == "" {
		return fmt.Errorf("email claim is missing")
	}

	if claims.Subject == "" {
		return fmt.Errorf("subject claim is missing")
	}

	return nil
}

// containsAudience checks if the audience list contains the expected audience
func containsAudience(audiences jwt.ClaimStrings, expected string) bool {
	for _, aud := range audiences {
		if aud == expected {
			return true
		}
	}
	return false
}

// shouldSkipAuth determines if authentication should be skipped for this path
func (j *JWTAuthMiddleware) shouldSkipAuth(path string) bool {
	for _, skipPath := range j.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

// IssueToken signs a token for the given user. Used by the auth service on
// login; lives here so signing and verification share one configuration.
func (j *JWTAuthMiddleware) IssueToken(user *models.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &models.UserClaims{
		Email: user.Email,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    j.config.ExpectedIssuer,
			Audience:  jwt.ClaimStrings{j.config.ExpectedAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if user.MemberID != nil {
		claims.MemberID = *user.MemberID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}
