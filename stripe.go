package ticketpal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
	"goflare.io/ticketpal/user"
)

// HandleStripeWebhook verifies a Stripe delivery and applies it once.
func (a *App) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	if a.config.Stripe.WebhookSecret == "" {
		return fmt.Errorf("%w: stripe webhook secret not configured", ErrUnauthorized)
	}

	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signature, a.config.Stripe.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		a.metrics.WebhooksReceived.WithLabelValues("stripe", "rejected").Inc()
		return fmt.Errorf("%w: failed to verify webhook signature: %v", ErrUnauthorized, err)
	}

	processed, err := a.event.IsEventProcessed(ctx, enum.EventSourceStripe, stripeEvent.ID)
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if processed {
		a.logger.Info("Event is already processed", zap.String("event_id", stripeEvent.ID))
		a.metrics.WebhooksReceived.WithLabelValues("stripe", "duplicate").Inc()
		return nil
	}

	if _, exists := a.eventManager.GetHandler(stripeEvent.Type); !exists {
		a.logger.Info("Ignoring unhandled Stripe event",
			zap.String("event_id", stripeEvent.ID),
			zap.String("event_type", string(stripeEvent.Type)))
		a.metrics.WebhooksReceived.WithLabelValues("stripe", "ignored").Inc()
		return nil
	}

	eventModel := &models.Event{
		ID:     stripeEvent.ID,
		Source: enum.EventSourceStripe,
		Type:   string(stripeEvent.Type),
	}
	if err = a.event.Create(ctx, eventModel); err != nil {
		a.logger.Error("Failed to create event", zap.Error(err))
		return err
	}

	if err = a.ProcessEvent(ctx, &stripeEvent); err != nil {
		a.metrics.WebhooksReceived.WithLabelValues("stripe", "failed").Inc()
		return err
	}

	a.metrics.WebhooksReceived.WithLabelValues("stripe", "processed").Inc()
	return nil
}

func (a *App) ProcessEvent(ctx context.Context, event *stripe.Event) error {
	handler, exists := a.eventManager.GetHandler(event.Type)
	if !exists {
		return fmt.Errorf("no handler registered for event type: %s", event.Type)
	}

	if err := handler(ctx, event); err != nil {
		a.logger.Error("Failed to handle Stripe event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		return err
	}

	if err := a.event.MarkEventAsProcessed(ctx, enum.EventSourceStripe, event.ID, string(event.Type)); err != nil {
		a.logger.Error("Failed to mark event as processed", zap.Error(err))
		return err
	}

	a.logger.Info("Stripe event processed", zap.String("event_id", event.ID))

	return nil
}

func (a *App) handleCheckoutSessionEvent(ctx context.Context, stripeEvent *stripe.Event) error {

	session := new(stripe.CheckoutSession)
	if err := json.Unmarshal(stripeEvent.Data.Raw, session); err != nil {
		a.logger.Error("Failed to unmarshal checkout session event", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	var customerID string
	if session.Customer != nil {
		customerID = session.Customer.ID
	}

	var err error
	switch {
	case session.ClientReferenceID != "":
		if err = a.user.LinkStripeCustomer(ctx, session.ClientReferenceID, customerID); err == nil {
			err = a.user.SetTier(ctx, session.ClientReferenceID, enum.TierPremium)
		}
	case customerID != "":
		err = a.user.SetTierByStripeCustomer(ctx, customerID, enum.TierPremium)
	default:
		a.logger.Warn("Checkout session without user reference", zap.String("session_id", session.ID))
		return nil
	}

	return a.ignoreUnknownUser(err, stripeEvent)
}

func (a *App) handleSubscriptionEvent(ctx context.Context, stripeEvent *stripe.Event) error {

	subscription := new(stripe.Subscription)
	if err := json.Unmarshal(stripeEvent.Data.Raw, subscription); err != nil {
		a.logger.Error("Failed to unmarshal subscription event", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	if subscription.Customer == nil || subscription.Customer.ID == "" {
		a.logger.Warn("Subscription event without customer", zap.String("subscription_id", subscription.ID))
		return nil
	}

	tier, ok := subscriptionTier(stripeEvent.Type, subscription.Status)
	if !ok {
		a.logger.Info("Subscription status does not change tier",
			zap.String("subscription_id", subscription.ID),
			zap.String("status", string(subscription.Status)))
		return nil
	}

	err := a.user.SetTierByStripeCustomer(ctx, subscription.Customer.ID, tier)
	return a.ignoreUnknownUser(err, stripeEvent)
}

func (a *App) acknowledgeEvent(_ context.Context, stripeEvent *stripe.Event) error {
	a.logger.Info("Stripe event acknowledged",
		zap.String("event_id", stripeEvent.ID),
		zap.String("event_type", string(stripeEvent.Type)))
	return nil
}

// subscriptionTier maps a subscription event onto the tier it implies.
func subscriptionTier(eventType stripe.EventType, status stripe.SubscriptionStatus) (enum.Tier, bool) {
	switch eventType {
	case stripe.EventTypeCustomerSubscriptionDeleted, stripe.EventTypeCustomerSubscriptionPaused:
		return enum.TierFree, true
	}

	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return enum.TierPremium, true
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid,
		stripe.SubscriptionStatusIncompleteExpired, stripe.SubscriptionStatusPaused:
		return enum.TierFree, true
	}
	return "", false
}

// ignoreUnknownUser acknowledges events for accounts this service does not
// know about so the sender stops retrying them.
func (a *App) ignoreUnknownUser(err error, stripeEvent *stripe.Event) error {
	if errors.Is(err, user.ErrNotFound) {
		a.logger.Warn("Stripe event for unknown user",
			zap.String("event_id", stripeEvent.ID),
			zap.String("event_type", string(stripeEvent.Type)))
		return nil
	}
	return err
}
