package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
	"github.com/ArowuTest/club-portal-backend/internal/utils"
	"github.com/ArowuTest/club-portal-backend/pkg/jwt"
)

// Compile-time check to ensure authService implements AuthService
var _ AuthService = (*authService)(nil)

type authService struct {
	userRepo repositories.StaffUserRepository
	tokens   *jwt.TokenService
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(userRepo repositories.StaffUserRepository, tokens *jwt.TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login checks the password against the stored bcrypt hash and issues a staff token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			slog.Warn("Login attempt for unknown email", "email", req.Email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up staff user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		slog.Warn("Login attempt with wrong password", "userId", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	slog.Info("Staff user logged in", "userId", user.ID, "role", user.Role)
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, Role: user.Role}, nil
}

// CreateStaffUser hashes the password and stores a new account
func (s *authService) CreateStaffUser(ctx context.Context, name, email, password, role string) (*models.StaffUser, error) {
	if role != models.RoleAdmin && role != models.RoleStaff {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.StaffUser{
		ID:       utils.NewID(),
		Name:     name,
		Email:    normalizeEmail(email),
		Password: string(hashed),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}
	slog.Info("Staff user created", "userId", user.ID, "role", role)

	// Don't return password hash
	created := *user
	created.Password = ""
	return &created, nil
}

// EnsureAdmin creates the admin account unless the email is already registered
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	_, err = s.CreateStaffUser(ctx, "Administrator", email, password, models.RoleAdmin)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
