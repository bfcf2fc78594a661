// workers/health_monitor.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is anything whose liveness can be checked, usually the database store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Database  string    `json:"database"`
	CheckedAt time.Time `json:"checkedAt,omitempty"`
}

func (s HealthStatus) Healthy() bool {
	return s.Database == "connected"
}

// HealthMonitor caches the result of the last database check so /health never blocks on it.
type HealthMonitor struct {
	pinger  Pinger
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	status HealthStatus
}

func NewHealthMonitor(pinger Pinger, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{
		pinger:  pinger,
		timeout: 5 * time.Second,
		logger:  logger,
		status:  HealthStatus{Database: "unknown"},
	}
}

// Check pings the database once and records the outcome.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	next := HealthStatus{Database: "connected", CheckedAt: time.Now().UTC()}
	if err := m.pinger.Ping(ctx); err != nil {
		next.Database = "disconnected"
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.mu.Unlock()

	if prev.Database != next.Database {
		if next.Healthy() {
			m.logger.Info("✅ database reachable")
		} else {
			m.logger.Error("❌ database unreachable")
		}
	}
	return next
}

func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
