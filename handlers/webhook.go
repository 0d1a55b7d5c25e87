package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/challenge"
)

type WebhookHandler interface {
	HandleStripeWebhook(c echo.Context) error
	HandleRevenueCatWebhook(c echo.Context) error
	HandleWorkerWebhook(c echo.Context) error
}

type webhookHandler struct {
	TicketPal ticketpal.TicketPal
	logger    *zap.Logger
}

func NewWebhookHandler(
	TicketPal ticketpal.TicketPal,
	logger *zap.Logger,
) WebhookHandler {
	return &webhookHandler{
		TicketPal: TicketPal,
		logger:    logger,
	}
}

// HandleStripeWebhook handles POST /webhooks/stripe
func (wh *webhookHandler) HandleStripeWebhook(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return bodyFailure(c, err)
	}

	signature := c.Request().Header.Get("Stripe-Signature")

	if err = wh.TicketPal.HandleStripeWebhook(c.Request().Context(), payload, signature); err != nil {
		return fail(c, wh.logger, err)
	}

	return success(c, http.StatusOK, nil)
}

// HandleRevenueCatWebhook handles POST /webhooks/revenuecat
func (wh *webhookHandler) HandleRevenueCatWebhook(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return bodyFailure(c, err)
	}

	authorization := c.Request().Header.Get(echo.HeaderAuthorization)

	if err = wh.TicketPal.HandleRevenueCatWebhook(c.Request().Context(), payload, authorization); err != nil {
		return fail(c, wh.logger, err)
	}

	return success(c, http.StatusOK, nil)
}

// HandleWorkerWebhook handles POST /webhooks/worker
func (wh *webhookHandler) HandleWorkerWebhook(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return bodyFailure(c, err)
	}

	signature := c.Request().Header.Get(challenge.SignatureHeader)

	updated, err := wh.TicketPal.HandleWorkerWebhook(c.Request().Context(), payload, signature)
	if err != nil {
		return fail(c, wh.logger, err)
	}

	return success(c, http.StatusOK, updated)
}

var errBodyTooLarge = errors.New("request body too large")

// readBody reads the whole body, failing with errBodyTooLarge past
// maxWebhookBody bytes.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxWebhookBody {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func bodyFailure(c echo.Context, err error) error {
	if errors.Is(err, errBodyTooLarge) {
		return failure(c, http.StatusRequestEntityTooLarge, "Request body too large")
	}
	return failure(c, http.StatusBadRequest, "Failed to read request body")
}
