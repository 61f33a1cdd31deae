package service

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	HealthCheckInterval = 10 * time.Second
	PingTimeout         = 5 * time.Second
)

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Database  string    `json:"database"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

func (s HealthStatus) Healthy() bool {
	return s.Database == "ok"
}

// HealthWorker probes the database in the background so health checks
// answer from the last result instead of hitting the database.
type HealthWorker struct {
	db       Pinger
	interval time.Duration

	mu     sync.RWMutex
	status HealthStatus
}

func NewHealthWorker(db Pinger) *HealthWorker {
	return &HealthWorker{
		db:       db,
		interval: HealthCheckInterval,
		status:   HealthStatus{Database: "unknown"},
	}
}

func (w *HealthWorker) Start(ctx context.Context) {
	log.Infof("[Health Worker] Started, checking every %v", w.interval)

	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("[Health Worker] Stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check pings the database once and records the outcome.
func (w *HealthWorker) Check(ctx context.Context) HealthStatus {
	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	status := HealthStatus{Database: "ok", CheckedAt: time.Now()}
	if err := w.db.Ping(pingCtx); err != nil {
		status.Database = "down"
		status.Error = err.Error()
	}

	w.mu.Lock()
	prev := w.status
	w.status = status
	w.mu.Unlock()

	if prev.Healthy() && !status.Healthy() {
		log.Errorf("[Health Worker] Database unreachable: %s", status.Error)
	} else if !prev.Healthy() && status.Healthy() && prev.Database != "unknown" {
		log.Info("[Health Worker] Database reachable again")
	}

	return status
}

func (w *HealthWorker) Status() HealthStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}
