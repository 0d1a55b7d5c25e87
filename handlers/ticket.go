package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

type TicketHandler interface {
	CreateTicket(c echo.Context) error
	GetTicket(c echo.Context) error
	ListTickets(c echo.Context) error
	UpdateStatus(c echo.Context) error
	DeleteTicket(c echo.Context) error
	AddPriceIncrease(c echo.Context) error
	SubmitChallenge(c echo.Context) error
}

type ticketHandler struct {
	TicketPal ticketpal.TicketPal
	logger    *zap.Logger
}

func NewTicketHandler(
	TicketPal ticketpal.TicketPal,
	logger *zap.Logger,
) TicketHandler {
	return &ticketHandler{
		TicketPal: TicketPal,
		logger:    logger,
	}
}

type updateStatusRequest struct {
	Status enum.TicketStatus `json:"status"`
}

type challengeRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// CreateTicket handles POST /tickets
func (th *ticketHandler) CreateTicket(c echo.Context) error {
	var t models.Ticket
	if err := c.Bind(&t); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}

	summary, err := th.TicketPal.CreateTicket(c.Request().Context(), &t)
	if err != nil {
		return fail(c, th.logger, err)
	}

	return success(c, http.StatusCreated, summary)
}

// GetTicket handles GET /tickets/:id
func (th *ticketHandler) GetTicket(c echo.Context) error {
	summary, err := th.TicketPal.GetTicketSummary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, th.logger, err)
	}

	return success(c, http.StatusOK, summary)
}

// ListTickets handles GET /tickets?user_id=&limit=&offset=
func (th *ticketHandler) ListTickets(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return failure(c, http.StatusBadRequest, "user_id is required")
	}

	limit, err := queryUint(c, "limit")
	if err != nil {
		return failure(c, http.StatusBadRequest, "Invalid limit")
	}
	offset, err := queryUint(c, "offset")
	if err != nil {
		return failure(c, http.StatusBadRequest, "Invalid offset")
	}

	summaries, err := th.TicketPal.ListTickets(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return fail(c, th.logger, err)
	}

	return success(c, http.StatusOK, summaries)
}

// UpdateStatus handles PUT /tickets/:id/status
func (th *ticketHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}

	summary, err := th.TicketPal.UpdateTicketStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return fail(c, th.logger, err)
	}

	return success(c, http.StatusOK, summary)
}

// DeleteTicket handles DELETE /tickets/:id
func (th *ticketHandler) DeleteTicket(c echo.Context) error {
	if err := th.TicketPal.DeleteTicket(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, th.logger, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddPriceIncrease handles POST /tickets/:id/price-increases
func (th *ticketHandler) AddPriceIncrease(c echo.Context) error {
	var increase models.PriceIncrease
	if err := c.Bind(&increase); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}

	summary, err := th.TicketPal.AddPriceIncrease(c.Request().Context(), c.Param("id"), &increase)
	if err != nil {
		return fail(c, th.logger, err)
	}

	return success(c, http.StatusCreated, summary)
}

// SubmitChallenge handles POST /tickets/:id/challenges
func (th *ticketHandler) SubmitChallenge(c echo.Context) error {
	var req challengeRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid request payload")
	}

	challenge, err := th.TicketPal.SubmitChallenge(c.Request().Context(), c.Param("id"), req.Type, req.Payload)
	if err != nil {
		return fail(c, th.logger, err)
	}

	return success(c, http.StatusAccepted, challenge)
}

func queryUint(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
