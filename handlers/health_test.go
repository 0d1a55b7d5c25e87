package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
)

type pingPool struct {
	driver.PostgresPool
	err error
}

func (p pingPool) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	h := NewHealthHandler(pingPool{}, nil, zap.NewNop())
	rec := serve(http.MethodGet, "/health", "", h.Health)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)

	h = NewHealthHandler(pingPool{err: errors.New("down")}, nil, zap.NewNop())
	rec = serve(http.MethodGet, "/health", "", h.Health)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, decode(t, rec).Success)
}
