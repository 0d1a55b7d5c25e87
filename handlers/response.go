package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/challenge"
	"goflare.io/ticketpal/price_increase"
	"goflare.io/ticketpal/ticket"
	"goflare.io/ticketpal/user"
)

const maxWebhookBody = 1 << 20

// Result is the envelope of every JSON response.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success(c echo.Context, status int, data any) error {
	return c.JSON(status, Result{Success: true, Data: data})
}

func failure(c echo.Context, status int, msg string) error {
	return c.JSON(status, Result{Success: false, Error: msg})
}

// fail writes err as a failed result. Internal errors are logged and
// replaced by a generic message.
func fail(c echo.Context, logger *zap.Logger, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()))
		return failure(c, status, "internal error")
	}
	return failure(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ticket.ErrNotFound),
		errors.Is(err, challenge.ErrChallengeNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ticket.ErrInvalidTicket),
		errors.Is(err, ticket.ErrInvalidStatus),
		errors.Is(err, price_increase.ErrInvalidPriceIncrease),
		errors.Is(err, challenge.ErrInvalidChallenge),
		errors.Is(err, challenge.ErrInvalidPayload),
		errors.Is(err, ticketpal.ErrInvalidWebhook):
		return http.StatusBadRequest
	case errors.Is(err, ticketpal.ErrUnauthorized),
		errors.Is(err, challenge.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, challenge.ErrWorkerUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
