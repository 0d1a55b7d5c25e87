package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"goflare.io/ticketpal/models/enum"
	"goflare.io/ticketpal/timeline"
)

type TimelineHandler interface {
	GetTimeline(c echo.Context) error
}

type timelineHandler struct{}

func NewTimelineHandler() TimelineHandler {
	return &timelineHandler{}
}

// GetTimeline handles GET /timelines/:issuer
func (th *timelineHandler) GetTimeline(c echo.Context) error {
	issuer := enum.IssuerType(strings.ToUpper(c.Param("issuer")))
	if !issuer.Valid() {
		return failure(c, http.StatusNotFound, "Unknown issuer type")
	}

	return success(c, http.StatusOK, timeline.Stages(issuer))
}
