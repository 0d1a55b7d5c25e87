package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/ticketpal/challenge"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
	"goflare.io/ticketpal/ticket"
)

func serve(method, target, body string, handler echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	_ = handler(c)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Result {
	t.Helper()
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestCreateTicket(t *testing.T) {
	fake := &fakeTicketPal{summary: &models.TicketSummary{AmountDue: 7000, AmountDueFormatted: "£70.00"}}
	h := NewTicketHandler(fake, zap.NewNop())

	rec := serve(http.MethodPost, "/tickets",
		`{"user_id":"u1","pcn_number":"AB123","issuer_type":"COUNCIL","initial_amount":7000,"issued_at":"2024-03-01T09:00:00Z"}`,
		h.CreateTicket)

	assert.Equal(t, http.StatusCreated, rec.Code)
	res := decode(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "u1", fake.lastTicket.UserID)
	assert.Equal(t, enum.IssuerTypeCouncil, fake.lastTicket.IssuerType)
	assert.Equal(t, int64(7000), fake.lastTicket.InitialAmount)
	assert.Contains(t, rec.Body.String(), `"amount_due_formatted":"£70.00"`)
}

func TestCreateTicketErrors(t *testing.T) {
	h := NewTicketHandler(&fakeTicketPal{err: fmt.Errorf("%w: pcn_number is required", ticket.ErrInvalidTicket)}, zap.NewNop())

	rec := serve(http.MethodPost, "/tickets", `{"user_id":"u1"}`, h.CreateTicket)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	res := decode(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "invalid ticket: pcn_number is required", res.Error)

	rec = serve(http.MethodPost, "/tickets", `{"user_id":`, h.CreateTicket)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestGetTicket(t *testing.T) {
	fake := &fakeTicketPal{summary: &models.TicketSummary{AmountDue: 1}}
	h := NewTicketHandler(fake, zap.NewNop())

	rec := serve(http.MethodGet, "/tickets/t1", "", h.GetTicket, "id", "t1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", fake.lastID)

	fake.err = fmt.Errorf("failed to get ticket: %w", ticket.ErrNotFound)
	rec = serve(http.MethodGet, "/tickets/t2", "", h.GetTicket, "id", "t2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	h := NewTicketHandler(&fakeTicketPal{err: errors.New("pq: connection refused")}, zap.NewNop())

	rec := serve(http.MethodGet, "/tickets/t1", "", h.GetTicket, "id", "t1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode(t, rec).Error)
}

func TestListTickets(t *testing.T) {
	fake := &fakeTicketPal{summaries: []*models.TicketSummary{{}, {}}}
	h := NewTicketHandler(fake, zap.NewNop())

	rec := serve(http.MethodGet, "/tickets?user_id=u1&limit=5&offset=10", "", h.ListTickets)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", fake.lastID)
	assert.Equal(t, uint64(5), fake.lastLimit)
	assert.Equal(t, uint64(10), fake.lastOffset)

	rec = serve(http.MethodGet, "/tickets", "", h.ListTickets)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(http.MethodGet, "/tickets?user_id=u1&limit=-1", "", h.ListTickets)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	fake := &fakeTicketPal{summary: &models.TicketSummary{}}
	h := NewTicketHandler(fake, zap.NewNop())

	rec := serve(http.MethodPut, "/tickets/t1/status", `{"status":"PAID"}`, h.UpdateStatus, "id", "t1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enum.TicketStatusPaid, fake.lastStatus)

	fake.err = fmt.Errorf("%w: %q", ticket.ErrInvalidStatus, "NOPE")
	rec = serve(http.MethodPut, "/tickets/t1/status", `{"status":"NOPE"}`, h.UpdateStatus, "id", "t1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTicket(t *testing.T) {
	fake := &fakeTicketPal{}
	h := NewTicketHandler(fake, zap.NewNop())

	rec := serve(http.MethodDelete, "/tickets/t1", "", h.DeleteTicket, "id", "t1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "t1", fake.lastID)
}

func TestAddPriceIncrease(t *testing.T) {
	fake := &fakeTicketPal{summary: &models.TicketSummary{AmountDue: 13000}}
	h := NewTicketHandler(fake, zap.NewNop())

	rec := serve(http.MethodPost, "/tickets/t1/price-increases",
		`{"amount":13000,"effective_at":"2024-04-01T00:00:00Z"}`, h.AddPriceIncrease, "id", "t1")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "t1", fake.lastID)
}

func TestSubmitChallenge(t *testing.T) {
	fake := &fakeTicketPal{challenge: &models.Challenge{JobID: "job_1", Status: enum.ChallengeStatusPending}}
	h := NewTicketHandler(fake, zap.NewNop())

	rec := serve(http.MethodPost, "/tickets/t1/challenges", `{"type":"challenge-pcn","payload":{"a":1}}`,
		h.SubmitChallenge, "id", "t1")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "challenge-pcn", fake.lastType)

	fake.err = fmt.Errorf("failed to submit challenge: %w", challenge.ErrWorkerUnavailable)
	rec = serve(http.MethodPost, "/tickets/t1/challenges", `{"type":"challenge-pcn"}`, h.SubmitChallenge, "id", "t1")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
