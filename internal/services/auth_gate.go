package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/models"
	"github.com/cardiocompanion/cardio-api/internal/repository"
)

const appleFetchTimeout = 5 * time.Second

// AuthGate turns a verified bearer token into an account. It accepts the
// API's own HS256 session tokens and RS256 Apple identity tokens.
type AuthGate struct {
	users  UserStore
	tokens *TokenIssuer
	apple  *AppleVerifier
}

func NewAuthGate(users UserStore, tokens *TokenIssuer, apple *AppleVerifier) *AuthGate {
	return &AuthGate{users: users, tokens: tokens, apple: apple}
}

// KeyFunc selects the verification key by algorithm so one middleware can
// check both token families.
func (g *AuthGate) KeyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.Alg() {
	case jwt.SigningMethodHS256.Alg():
		return g.tokens.hmacKey(token)
	case jwt.SigningMethodRS256.Alg():
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		// jwt.Keyfunc carries no request context. A refresh is shared by
		// every waiting request, so it runs on its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), appleFetchTimeout)
		defer cancel()
		return g.apple.PublicKey(ctx, kid)
	default:
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
}

// Resolve loads the account for a token whose signature and expiry were
// already checked with KeyFunc.
func (g *AuthGate) Resolve(ctx context.Context, token *jwt.Token) (*models.User, error) {
	if token == nil || !token.Valid {
		return nil, apperr.Unauthenticated("Invalid token")
	}

	if token.Method.Alg() == jwt.SigningMethodRS256.Alg() {
		return g.resolveApple(ctx, token.Raw)
	}
	return g.resolveLocal(ctx, token)
}

func (g *AuthGate) resolveLocal(ctx context.Context, token *jwt.Token) (*models.User, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthenticated("Invalid token")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "" {
		return nil, apperr.Unauthenticated("Invalid token")
	}

	// Tokens issued before the switch to sub carry the id under "userId"
	// or "id".
	var raw string
	for _, name := range []string{"sub", "userId", "id"} {
		if raw, _ = claims[name].(string); raw != "" {
			break
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid token: no user id")
	}

	user, err := g.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthenticated("User not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return user, nil
}

func (g *AuthGate) resolveApple(ctx context.Context, raw string) (*models.User, error) {
	claims, err := g.apple.Verify(ctx, raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuthentication, "Invalid Apple identity token", err)
	}

	user, _, err := findOrCreateAppleUser(ctx, g.users, claims.Subject, claims.Email, "")
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, apperr.Wrap(apperr.KindAuthentication, "Apple account cannot be used", err)
		}
		return nil, err
	}
	return user, nil
}
