package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type connState bool

func (c connState) IsConnected() bool { return bool(c) }

func okPing(context.Context) error { return nil }

func TestHealthCheckHealthy(t *testing.T) {
	store := newMemStore()
	l := newListener(store, nil, &flakyPublisher{}, clockwork.NewRealClock(), testConfig())
	l.setRunning(true)

	h := NewHealthChecker(l, pingFunc(okPing), connState(true), store, clockwork.NewRealClock(), time.Minute)
	status := h.Check(context.Background())

	assert.True(t, status.Healthy, status.Errors)
	assert.True(t, status.DatabaseConnected)
	assert.True(t, status.NATSConnected)
	assert.Empty(t, status.Errors)
}

func TestHealthCheckReportsProblems(t *testing.T) {
	store := newMemStore()
	l := newListener(store, nil, &flakyPublisher{}, clockwork.NewRealClock(), testConfig())

	h := NewHealthChecker(l, pingFunc(func(context.Context) error { return errors.New("down") }),
		connState(false), store, clockwork.NewRealClock(), time.Minute)
	status := h.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.False(t, status.ListenerActive)
	assert.False(t, status.DatabaseConnected)
	assert.False(t, status.NATSConnected)
	assert.Len(t, status.Errors, 3)
}

func TestHealthCheckStalledBacklog(t *testing.T) {
	clock := clockwork.NewFakeClockAt(base)
	first := newEvent(0)
	store := newMemStore(first, newEvent(time.Second))
	l := newListener(store, nil, &flakyPublisher{}, clock, testConfig())
	l.setRunning(true)

	require.NoError(t, l.handleNotification(context.Background(), first.ID.String()))
	clock.Advance(10 * time.Minute)

	h := NewHealthChecker(l, pingFunc(okPing), nil, store, clock, time.Minute)
	status := h.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.Equal(t, int64(1), status.PendingEvents)
	assert.Equal(t, uint64(1), status.EventsProcessed)
}

func TestHealthCheckBacklogNeverRelayed(t *testing.T) {
	clock := clockwork.NewFakeClockAt(base)
	store := newMemStore(newEvent(0), newEvent(time.Second))
	l := newListener(store, nil, &flakyPublisher{}, clock, testConfig())
	l.setRunning(true)

	h := NewHealthChecker(l, pingFunc(okPing), connState(true), store, clock, time.Minute)

	fresh := h.Check(context.Background())
	assert.True(t, fresh.Healthy, fresh.Errors)
	assert.Equal(t, base, fresh.OldestPending)

	clock.Advance(5 * time.Minute)
	stuck := h.Check(context.Background())
	assert.False(t, stuck.Healthy)
	assert.True(t, stuck.LastEventTime.IsZero())
	assert.Equal(t, int64(2), stuck.PendingEvents)
	require.Len(t, stuck.Errors, 1)
	assert.Contains(t, stuck.Errors[0], "oldest pending event")
}

func TestHealthHandler(t *testing.T) {
	store := newMemStore()
	l := newListener(store, nil, &flakyPublisher{}, clockwork.NewRealClock(), testConfig())

	h := NewHealthChecker(l, pingFunc(okPing), nil, store, clockwork.NewRealClock(), time.Minute)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, status.Errors, "listener not active")
}
