package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/challenge"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

func serveWebhook(handler echo.HandlerFunc, body string, headers map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestStripeWebhook(t *testing.T) {
	fake := &fakeTicketPal{}
	h := NewWebhookHandler(fake, zap.NewNop())

	rec := serveWebhook(h.HandleStripeWebhook, `{"id":"evt_1"}`, map[string]string{"Stripe-Signature": "t=1,v1=abc"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"id":"evt_1"}`, string(fake.lastBody))
	assert.Equal(t, "t=1,v1=abc", fake.lastHeader)

	fake.err = fmt.Errorf("%w: bad signature", ticketpal.ErrUnauthorized)
	rec = serveWebhook(h.HandleStripeWebhook, `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestRevenueCatWebhook(t *testing.T) {
	fake := &fakeTicketPal{}
	h := NewWebhookHandler(fake, zap.NewNop())

	rec := serveWebhook(h.HandleRevenueCatWebhook, `{"event":{}}`, map[string]string{echo.HeaderAuthorization: "Bearer s"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer s", fake.lastHeader)

	fake.err = fmt.Errorf("%w: missing id", ticketpal.ErrInvalidWebhook)
	rec = serveWebhook(h.HandleRevenueCatWebhook, `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkerWebhook(t *testing.T) {
	fake := &fakeTicketPal{challenge: &models.Challenge{JobID: "job_1", Status: enum.ChallengeStatusSuccess}}
	h := NewWebhookHandler(fake, zap.NewNop())

	rec := serveWebhook(h.HandleWorkerWebhook, `{"jobId":"job_1"}`, map[string]string{challenge.SignatureHeader: "sha256=ff"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sha256=ff", fake.lastHeader)
	assert.Contains(t, rec.Body.String(), `"status":"SUCCESS"`)

	for err, code := range map[error]int{
		challenge.ErrInvalidSignature:                                 http.StatusUnauthorized,
		fmt.Errorf("failed: %w", challenge.ErrChallengeNotFound):      http.StatusNotFound,
		fmt.Errorf("%w: unknown status", challenge.ErrInvalidPayload): http.StatusBadRequest,
	} {
		fake.err = err
		rec = serveWebhook(h.HandleWorkerWebhook, `{}`, nil)
		assert.Equal(t, code, rec.Code, err.Error())
	}
}

func TestWebhookBodyLimit(t *testing.T) {
	fake := &fakeTicketPal{}
	h := NewWebhookHandler(fake, zap.NewNop())

	atLimit := strings.Repeat("a", maxWebhookBody)
	rec := serveWebhook(h.HandleStripeWebhook, atLimit, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, fake.lastBody, maxWebhookBody)

	fake.lastBody = nil
	oversized := atLimit + "b"
	for name, handler := range map[string]echo.HandlerFunc{
		"stripe":     h.HandleStripeWebhook,
		"revenuecat": h.HandleRevenueCatWebhook,
		"worker":     h.HandleWorkerWebhook,
	} {
		rec = serveWebhook(handler, oversized, nil)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, name)
		assert.False(t, decode(t, rec).Success, name)
	}
	assert.Nil(t, fake.lastBody)
}
