package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cardiocompanion/cardio-api/internal/apperr"
	"github.com/cardiocompanion/cardio-api/internal/dto"
	"github.com/cardiocompanion/cardio-api/internal/models"
	"github.com/cardiocompanion/cardio-api/internal/repository"
)

// SubscriptionService keeps User.SubscriptionStatus in step with RevenueCat.
type SubscriptionService struct {
	users UserStore
}

func NewSubscriptionService(users UserStore) *SubscriptionService {
	return &SubscriptionService{users: users}
}

// HandleWebhookEvent applies one RevenueCat event. Events for unknown users
// and event types that don't change entitlement are ignored.
func (s *SubscriptionService) HandleWebhookEvent(ctx context.Context, event *dto.RevenueCatEvent) error {
	status, ok := statusForEvent(event.Type)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(event.AppUserID)
	if err != nil {
		id, err = uuid.Parse(event.OriginalAppUserID)
	}
	if err != nil {
		slog.Warn("webhook for non-account app user id", "action", "revenuecat_webhook", "event_type", event.Type)
		return nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("webhook for unknown user", "action", "revenuecat_webhook", "user_id", id.String())
			return nil
		}
		return apperr.Internal("failed to load user", err)
	}

	if user.SubscriptionStatus == status {
		return nil
	}
	if err := s.users.Update(ctx, user, map[string]interface{}{"subscription_status": status}); err != nil {
		return apperr.Internal("failed to update subscription", err)
	}
	user.SubscriptionStatus = status
	return nil
}

func statusForEvent(eventType string) (string, bool) {
	switch eventType {
	case "INITIAL_PURCHASE", "RENEWAL", "UNCANCELLATION", "PRODUCT_CHANGE":
		return models.SubscriptionPremium, true
	case "EXPIRATION":
		return models.SubscriptionFree, true
	default:
		return "", false
	}
}
