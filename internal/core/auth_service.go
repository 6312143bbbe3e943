package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"promptadmin-backend-go/internal/auth"
	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

// authService implements the AuthService interface.
type authService struct {
	userRepo     db.UserRepository
	auditService AuditService
	jwtSecret    string
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo db.UserRepository, auditService AuditService, jwtSecret string) (AuthService, error) {
	if jwtSecret == "" {
		return nil, errors.New("authService: JWT secret must not be empty")
	}
	return &authService{
		userRepo:     userRepo,
		auditService: auditService,
		jwtSecret:    jwtSecret,
	}, nil
}

// Login verifies credentials for an admin account and issues a session token.
// The admin-role check runs before the password comparison result is acted on,
// so a non-admin with correct credentials still gets a 403-mapped error and no
// token is ever issued for them.
func (s *authService) Login(ctx context.Context, email, password, deviceID string, deviceInfo map[string]string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account for email", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if user.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: account role is '%s'", ErrNotAdmin, user.Role)
	}
	if user.IsDeleted {
		return nil, fmt.Errorf("%w: account is in trash", ErrNotAdmin)
	}
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: account has no password set", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: password mismatch", ErrInvalidCredentials)
	}

	// Record the sign-in before building the response so the returned
	// lastLogin reflects the just-written timestamp.
	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update lastLogin for user '%s': %w", user.ID, err)
	}
	historyEntry := &models.LoginHistory{
		LoginTime:  now,
		DeviceID:   deviceID,
		DeviceInfo: deviceInfo,
	}
	if err := s.userRepo.AddLoginHistory(ctx, user.ID, historyEntry); err != nil {
		// Login history is observability, not a gate.
		log.Printf("Warning: failed to record login history for user '%s': %v", user.ID, err)
	}

	claims := auth.NewClaims(user.ID, user.Email, user.Role)
	token, err := claims.Sign(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	if s.auditService != nil {
		entry := models.AuditLog{
			UserID:     user.ID,
			Action:     "AUTH_LOGIN",
			TargetType: "USER",
			TargetID:   user.ID,
			Timestamp:  now,
		}
		if auditErr := s.auditService.CreateAuditLog(ctx, entry); auditErr != nil {
			log.Printf("Warning: failed to create audit log for AUTH_LOGIN (userID: %s): %v", user.ID, auditErr)
		}
	}

	return &LoginResult{User: user, Token: token}, nil
}

// VerifySession validates a raw session token and re-checks the stored role.
// The token's embedded role claim is never trusted on its own; a role
// downgrade after issuance invalidates the session.
func (s *authService) VerifySession(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := auth.ParseToken(rawToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user '%s'", ErrUserNotFound, claims.UserID)
		}
		return nil, fmt.Errorf("failed to re-read user '%s' for session check: %w", claims.UserID, err)
	}

	if user.Role != models.RoleAdmin || user.IsDeleted {
		return nil, fmt.Errorf("%w: stored role check failed for user '%s'", ErrNotAdmin, user.ID)
	}

	return user, nil
}
