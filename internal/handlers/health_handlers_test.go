package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(err error) Probe {
	return func(context.Context) error { return err }
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandlers("1.2.0", map[string]Probe{
		"database": probe(nil),
		"redis":    probe(nil),
	}, "database")

	c, rec := newContext(http.MethodGet, "/health", "", "")
	require.NoError(t, h.HealthCheck(c))

	assertStatus(t, rec, http.StatusOK)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.0", status.Version)
	assert.Equal(t, map[string]string{"database": "healthy", "redis": "healthy"}, status.Services)
}

func TestHealthCheck_Degraded(t *testing.T) {
	h := NewHealthHandlers("1.2.0", map[string]Probe{
		"database": probe(nil),
		"events":   probe(errors.New("connection closed")),
	}, "database")

	c, rec := newContext(http.MethodGet, "/health", "", "")
	require.NoError(t, h.HealthCheck(c))
	assertStatus(t, rec, http.StatusPartialContent)
	assert.Contains(t, rec.Body.String(), `"events":"unhealthy"`)

	// a non-critical failure keeps the service ready
	c, rec = newContext(http.MethodGet, "/health/ready", "", "")
	require.NoError(t, h.ReadinessCheck(c))
	assertStatus(t, rec, http.StatusOK)
}

func TestReadinessCheck_CriticalFailure(t *testing.T) {
	h := NewHealthHandlers("1.2.0", map[string]Probe{"database": probe(errors.New("refused"))}, "database")

	c, rec := newContext(http.MethodGet, "/health/ready", "", "")
	require.NoError(t, h.ReadinessCheck(c))
	assertStatus(t, rec, http.StatusServiceUnavailable)

	c, rec = newContext(http.MethodGet, "/health/live", "", "")
	require.NoError(t, h.LivenessCheck(c))
	assertStatus(t, rec, http.StatusOK)
}
