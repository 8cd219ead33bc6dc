package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// AuthService coordinates registration, login and session flows.
type AuthService struct {
	users       repository.UserRepository
	revocations repository.TokenRevocationRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
}

// AuthDependencies encapsulates repo requirements for auth service.
// RevocationRepo may be nil when no Redis is configured.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	RevocationRepo repository.TokenRevocationRepository
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Street    string
	Apartment string
	Zip       string
	City      string
	Country   string
}

// ProfileInput carries the editable account fields. Nil leaves a field untouched.
type ProfileInput struct {
	Name      *string
	Email     *string
	Phone     *string
	Street    *string
	Apartment *string
	Zip       *string
	City      *string
	Country   *string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		revocations: deps.RevocationRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// Register creates a new customer account. New accounts are never admins.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Phone:        input.Phone,
		Street:       input.Street,
		Apartment:    input.Apartment,
		Zip:          input.Zip,
		City:         input.City,
		Country:      input.Country,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

// Login verifies the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperrors.WithStatus(apperrors.NewNotFound("The user not found"), http.StatusBadRequest)
		}
		return nil, errors.Wrap(err, "lookup user")
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewInvalidCredentials("Password is wrong!")
		}
		return nil, errors.Wrap(err, "compare password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Logout revokes the presented token until it would have expired. Without a
// revocation store the call succeeds and the token simply runs out.
func (s *AuthService) Logout(ctx context.Context, identity domain.Identity) error {
	if s.revocations == nil || identity.TokenID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return errors.Wrap(err, "revoke token")
	}
	return nil
}

// CurrentUser loads the live account behind an identity.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, errors.Wrap(err, "lookup user")
	}
	return user, nil
}

// UpdateProfile applies the supplied profile fields to the caller's account.
// Password and admin flag are not editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&user.Phone, input.Phone},
		{&user.Street, input.Street},
		{&user.Apartment, input.Apartment},
		{&user.Zip, input.Zip},
		{&user.City, input.City},
		{&user.Country, input.Country},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, errors.Wrap(err, "update user")
	}
	return user, nil
}

// ListUsers returns every account, oldest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperrors.NewInvalidCredentials("current password is wrong")
		}
		return errors.Wrap(err, "compare password")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return errors.Wrap(err, "update user")
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
