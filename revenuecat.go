package ticketpal

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
	"goflare.io/ticketpal/user"
)

type revenueCatWebhook struct {
	Event revenueCatEvent `json:"event"`
}

type revenueCatEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	AppUserID string `json:"app_user_id"`
}

var revenueCatTiers = map[string]enum.Tier{
	"INITIAL_PURCHASE":      enum.TierPremium,
	"RENEWAL":               enum.TierPremium,
	"UNCANCELLATION":        enum.TierPremium,
	"PRODUCT_CHANGE":        enum.TierPremium,
	"NON_RENEWING_PURCHASE": enum.TierPremium,
	"EXPIRATION":            enum.TierFree,
}

// HandleRevenueCatWebhook applies an in-app purchase event. authorization is
// the raw Authorization header, expected to be "Bearer <secret>".
func (a *App) HandleRevenueCatWebhook(ctx context.Context, payload []byte, authorization string) error {
	if !a.revenueCatAuthorized(authorization) {
		a.metrics.WebhooksReceived.WithLabelValues("revenuecat", "rejected").Inc()
		return ErrUnauthorized
	}

	var body revenueCatWebhook
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	ev := body.Event
	if ev.ID == "" || ev.Type == "" {
		return fmt.Errorf("%w: event id and type are required", ErrInvalidWebhook)
	}
	tier, changesTier := revenueCatTiers[ev.Type]
	if changesTier && ev.AppUserID == "" {
		return fmt.Errorf("%w: app_user_id is required", ErrInvalidWebhook)
	}

	processed, err := a.event.IsEventProcessed(ctx, enum.EventSourceRevenueCat, ev.ID)
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if processed {
		a.logger.Info("Event is already processed", zap.String("event_id", ev.ID))
		a.metrics.WebhooksReceived.WithLabelValues("revenuecat", "duplicate").Inc()
		return nil
	}

	if err = a.event.Create(ctx, &models.Event{ID: ev.ID, Source: enum.EventSourceRevenueCat, Type: ev.Type}); err != nil {
		a.logger.Error("Failed to create event", zap.Error(err))
		return err
	}

	if changesTier {
		err = a.user.SetTier(ctx, ev.AppUserID, tier)
		if err = a.ignoreUnknownRevenueCatUser(err, ev); err != nil {
			a.metrics.WebhooksReceived.WithLabelValues("revenuecat", "failed").Inc()
			return err
		}
	} else {
		a.logger.Info("RevenueCat event acknowledged",
			zap.String("event_id", ev.ID),
			zap.String("event_type", ev.Type))
	}

	if err = a.event.MarkEventAsProcessed(ctx, enum.EventSourceRevenueCat, ev.ID, ev.Type); err != nil {
		a.logger.Error("Failed to mark event as processed", zap.Error(err))
		return err
	}

	a.metrics.WebhooksReceived.WithLabelValues("revenuecat", "processed").Inc()
	return nil
}

func (a *App) revenueCatAuthorized(authorization string) bool {
	secret := a.config.RevenueCat.WebhookSecret
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(authorization), []byte("Bearer "+secret)) == 1
}

func (a *App) ignoreUnknownRevenueCatUser(err error, ev revenueCatEvent) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, user.ErrNotFound) {
		a.logger.Warn("RevenueCat event for unknown user",
			zap.String("event_id", ev.ID),
			zap.String("app_user_id", ev.AppUserID))
		return nil
	}
	return err
}
