package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/service/auth"
	"github.com/storybridge/storybridge-api/internal/store"
)

// UserService handles registration, login, and the admin bootstrap.
type UserService struct {
	userStore  store.UserStore
	verifier   auth.PasswordVerifier
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	log *slog.Logger,
) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{
		userStore:  userStore,
		verifier:   verifier,
		jwtService: jwtService,
		logger:     log.With(slog.String("component", "user_service")),
	}
}

// SignUp registers a new account and returns it with a signed access
// token. Requests for the admin role are refused with
// ErrAdminSignupNotAllowed; the bootstrap path is the only way an admin
// account is created.
func (s *UserService) SignUp(
	ctx context.Context,
	email, password string,
	role domain.Role,
	language string,
) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if role == domain.RoleAdmin {
		log.Warn("rejected admin role in public signup", slog.String("email", email))
		return nil, "", ErrAdminSignupNotAllowed
	}

	user, err := domain.NewUser(email, password, role, language)
	if err != nil {
		return nil, "", err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token after signup: %w", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return user, token, nil
}

// Login authenticates by email and password and returns the user with a
// signed access token. Returns ErrInvalidCredentials for both unknown
// emails and wrong passwords.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch on login", slog.String("user_id", user.ID.String()))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token after login: %w", err)
	}

	return user, token, nil
}

// GetByID retrieves a single user, for the /auth/me endpoint.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account if it does not exist
// yet. Called once at startup when admin credentials are configured.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !store.IsNotFoundError(err) {
		return err
	}

	admin, err := domain.NewUser(email, password, domain.RoleAdmin, "en")
	if err != nil {
		return fmt.Errorf("invalid bootstrap admin account: %w", err)
	}

	if err := s.userStore.Create(ctx, admin); err != nil {
		// A concurrent boot may have inserted it first.
		if errors.Is(err, store.ErrEmailExists) {
			return nil
		}
		return err
	}

	log.Info("bootstrap admin account created", slog.String("user_id", admin.ID.String()))
	return nil
}
