package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/models"
	"github.com/cardiocompanion/cardio-api/internal/repository"
)

const (
	defaultAppleName  = "Apple User"
	appleRelayDomain  = "@privaterelay.appleid.com"
	msgBadCredentials = "Invalid email or password"
)

// UserStore is the credential store the services read and write.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByAppleUserID(ctx context.Context, appleUserID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User, fields map[string]interface{}) error
}

type AuthService struct {
	users  UserStore
	tokens *TokenIssuer
	apple  *AppleVerifier
}

func NewAuthService(users UserStore, tokens *TokenIssuer, apple *AppleVerifier) *AuthService {
	return &AuthService{users: users, tokens: tokens, apple: apple}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict("User already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperr.Internal("failed to look up user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:              email,
		Password:           string(hash),
		Name:               name,
		SubscriptionStatus: models.SubscriptionFree,
		AuthProvider:       models.AuthProviderEmail,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation(msgBadCredentials)
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	// Apple-only accounts have no password to compare against.
	if user.Password == "" {
		return nil, apperr.Validation(msgBadCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Validation(msgBadCredentials)
	}

	return s.respond(user)
}

// RegisterWithApple signs in with an Apple identity token. created reports
// whether a new account was made.
func (s *AuthService) RegisterWithApple(ctx context.Context, req *dto.AppleSignInRequest) (resp *dto.AuthResponse, created bool, err error) {
	claims, err := s.apple.Verify(ctx, req.IdentityToken)
	if err != nil {
		return nil, false, appleError(err)
	}

	var email, name string
	if req.User != nil {
		email, name = req.User.Email, req.User.Name
	}
	if claims.Email != "" {
		email = claims.Email
	}

	user, created, err := findOrCreateAppleUser(ctx, s.users, claims.Subject, email, name)
	if err != nil {
		return nil, false, err
	}

	resp, err = s.respond(user)
	return resp, created, err
}

func (s *AuthService) respond(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.AccessToken(user)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	return dto.NewAuthResponse(user, token), nil
}

// findOrCreateAppleUser resolves an Apple subject to an account. An existing
// email account with the same address is linked instead of duplicated.
func findOrCreateAppleUser(ctx context.Context, users UserStore, appleUserID, email, name string) (*models.User, bool, error) {
	user, err := users.FindByAppleUserID(ctx, appleUserID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, apperr.Internal("failed to look up Apple user", err)
	}

	email = normalizeEmail(email)
	if email == "" {
		email = strings.ToLower(appleUserID) + appleRelayDomain
	}

	user, err = users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.AppleUserID != nil {
			return nil, false, apperr.Conflict("Email is linked to another Apple account")
		}
		if err := users.Update(ctx, user, map[string]interface{}{
			"apple_user_id": appleUserID,
		}); err != nil {
			return nil, false, apperr.Internal("failed to link Apple account", err)
		}
		user.AppleUserID = &appleUserID
		return user, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, apperr.Internal("failed to look up user", err)
	}

	if strings.TrimSpace(name) == "" {
		name = defaultAppleName
	}
	user = &models.User{
		Email:              email,
		Name:               strings.TrimSpace(name),
		AppleUserID:        &appleUserID,
		SubscriptionStatus: models.SubscriptionFree,
		AuthProvider:       models.AuthProviderApple,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, false, apperr.Internal("failed to create Apple user", err)
	}
	return user, true, nil
}

func appleError(err error) error {
	if errors.Is(err, ErrAppleKeysUnavailable) {
		return apperr.External("Apple sign-in is unavailable", err)
	}
	return apperr.Wrap(apperr.KindValidation, "Invalid Apple identity token", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
