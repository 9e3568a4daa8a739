package session

import (
	"context"
	"time"

	"github.com/jordanlanch/brokerhub/pkg/auth"
	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

const defaultAvatar = "https://images.pexels.com/photos/1043471/pexels-photo-1043471.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&fit=crop"

// Service handles login, registration and the current-user session
type Service struct {
	store  *store.Store
	tokens *auth.TokenManager
	logger logger.Logger
}

// NewService creates a session service
func NewService(st *store.Store, tokens *auth.TokenManager, log logger.Logger) *Service {
	return &Service{
		store:  st,
		tokens: tokens,
		logger: log,
	}
}

// Login authenticates a user by email and password. Failures are
// reported in a fixed order: unknown user, then disabled account, then
// wrong password.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.store.UserByEmail(ctx, req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("User not found. Use the demo credentials.")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.NewAccountDisabledError()
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, domain.NewUnauthorizedError("Incorrect password.")
	}

	now := time.Now()
	updated, err := s.store.UpdateUser(ctx, user.ID, models.UserPatch{LastLogin: &now})
	if err != nil {
		return nil, err
	}

	if err := s.store.SetCurrentUser(ctx, *updated); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(updated.ID, updated.Email, updated.Role)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	s.logger.Info("🔐 User logged in", "user_id", updated.ID, "email", updated.Email)

	return &models.AuthResponse{
		Token: token,
		User:  updated.Sanitized(),
	}, nil
}

// Register creates a new user account and opens a session for it.
// Brokers get the standard permission set; admins get the wildcard.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if _, err := s.store.UserByEmail(ctx, req.Email); err == nil {
		return nil, domain.NewConflictError("This email is already registered.")
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleBroker
	}
	permissions := []string{"leads:read", "leads:write", "meetings:read", "meetings:write"}
	if role == models.RoleAdmin {
		permissions = []string{"*"}
	}

	created, err := s.store.CreateUser(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		Avatar:       defaultAvatar,
		Permissions:  permissions,
		IsActive:     true,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.SetCurrentUser(ctx, *created); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(created.ID, created.Email, created.Role)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	s.logger.Info("🆕 User registered", "user_id", created.ID, "email", created.Email)

	return &models.AuthResponse{
		Token: token,
		User:  created.Sanitized(),
	}, nil
}

// Current returns the user held in the session snapshot
func (s *Service) Current(ctx context.Context) (*models.User, error) {
	user, err := s.store.CurrentUser(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("")
		}
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Logout clears the session snapshot
func (s *Service) Logout(ctx context.Context) error {
	return s.store.ClearCurrentUser(ctx)
}
