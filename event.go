package ticketpal

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

type EventHandler func(context.Context, *stripe.Event) error

type EventManager struct {
	handlers map[stripe.EventType]EventHandler
	logger   *zap.Logger
}

func NewEventManager(logger *zap.Logger) *EventManager {
	return &EventManager{
		handlers: make(map[stripe.EventType]EventHandler),
		logger:   logger,
	}
}

func (em *EventManager) RegisterHandler(eventType stripe.EventType, handler EventHandler) {
	em.handlers[eventType] = handler
}

func (em *EventManager) GetHandler(eventType stripe.EventType) (EventHandler, bool) {
	handler, exists := em.handlers[eventType]
	return handler, exists
}

func (a *App) registerEventHandlers() {

	eventHandlers := map[stripe.EventType]EventHandler{
		// Checkout
		stripe.EventTypeCheckoutSessionCompleted:             a.handleCheckoutSessionEvent,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded: a.handleCheckoutSessionEvent,
		stripe.EventTypeCheckoutSessionAsyncPaymentFailed:    a.acknowledgeEvent,
		stripe.EventTypeCheckoutSessionExpired:               a.acknowledgeEvent,

		// Subscription
		stripe.EventTypeCustomerSubscriptionCreated:      a.handleSubscriptionEvent,
		stripe.EventTypeCustomerSubscriptionUpdated:      a.handleSubscriptionEvent,
		stripe.EventTypeCustomerSubscriptionResumed:      a.handleSubscriptionEvent,
		stripe.EventTypeCustomerSubscriptionDeleted:      a.handleSubscriptionEvent,
		stripe.EventTypeCustomerSubscriptionPaused:       a.handleSubscriptionEvent,
		stripe.EventTypeCustomerSubscriptionTrialWillEnd: a.acknowledgeEvent,

		// Invoice
		stripe.EventTypeInvoicePaid:          a.acknowledgeEvent,
		stripe.EventTypeInvoicePaymentFailed: a.acknowledgeEvent,
	}

	for eventType, handler := range eventHandlers {
		a.eventManager.RegisterHandler(eventType, handler)
	}
}
