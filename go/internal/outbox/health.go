package outbox

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/stakes/go/internal/httpx"
)

// pendingAlertThreshold is the backlog size reported as an error
const pendingAlertThreshold = 1000

type HealthStatus struct {
	Healthy           bool      `json:"healthy"`
	LastEventTime     time.Time `json:"last_event_time"`
	EventsProcessed   uint64    `json:"events_processed"`
	PendingEvents     int64     `json:"pending_events"`
	OldestPending     time.Time `json:"oldest_pending"`
	DatabaseConnected bool      `json:"database_connected"`
	NATSConnected     bool      `json:"nats_connected"`
	ListenerActive    bool      `json:"listener_active"`
	Errors            []string  `json:"errors"`
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnChecker reports whether the bus connection is up
type ConnChecker interface {
	IsConnected() bool
}

type HealthChecker struct {
	listener  *Listener
	db        Pinger
	bus       ConnChecker
	store     Store
	clock     clockwork.Clock
	threshold time.Duration // How long a pending event may wait before unhealthy
}

// NewHealthChecker builds a checker. bus may be nil when events are only logged.
func NewHealthChecker(listener *Listener, db Pinger, bus ConnChecker, store Store, clock clockwork.Clock, threshold time.Duration) *HealthChecker {
	return &HealthChecker{
		listener:  listener,
		db:        db,
		bus:       bus,
		store:     store,
		clock:     clock,
		threshold: threshold,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	status.EventsProcessed, status.LastEventTime, status.ListenerActive = h.listener.Stats()
	if !status.ListenerActive {
		status.Healthy = false
		status.Errors = append(status.Errors, "listener not active")
	}

	if err := h.db.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
	} else {
		status.DatabaseConnected = true
	}

	if h.bus != nil {
		status.NATSConnected = h.bus.IsConnected()
		if !status.NATSConnected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}

	if status.DatabaseConnected {
		pending, err := h.store.CountUnsentOutbox(ctx)
		if err != nil {
			status.Errors = append(status.Errors, fmt.Sprintf("failed to count pending events: %v", err))
		} else {
			status.PendingEvents = pending
			if pending > pendingAlertThreshold {
				status.Errors = append(status.Errors, fmt.Sprintf("high pending event count: %d", pending))
			}
		}

		// A backlog whose oldest row keeps aging means publishing is stuck,
		// including when nothing has ever been relayed.
		if status.PendingEvents > 0 {
			oldest, err := h.store.OldestUnsentOutbox(ctx)
			if err != nil {
				status.Errors = append(status.Errors, fmt.Sprintf("failed to read oldest pending event: %v", err))
			} else if !oldest.IsZero() {
				status.OldestPending = oldest
				if age := h.clock.Since(oldest); age > h.threshold {
					status.Healthy = false
					status.Errors = append(status.Errors, fmt.Sprintf("oldest pending event has waited %s", age))
				}
			}
		}
	}

	return status
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, code, status)
}
