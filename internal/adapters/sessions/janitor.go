package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/catalyst/internal/core/ports"
)

// Pruner removes sessions past a given age.
type Pruner interface {
	Prune(olderThan time.Duration) ([]string, error)
}

// Janitor expires sessions on a fixed interval while the server runs.
type Janitor struct {
	pruner   Pruner
	logger   ports.Logger
	ttl      time.Duration
	interval time.Duration

	mu        sync.Mutex
	lastSweep time.Time
	pruned    int
}

// NewJanitor creates a Janitor. A non-positive ttl or interval disables sweeping.
func NewJanitor(pruner Pruner, logger ports.Logger, ttl, interval time.Duration) *Janitor {
	return &Janitor{
		pruner:   pruner,
		logger:   logger,
		ttl:      ttl,
		interval: interval,
	}
}

// Enabled reports whether Run sweeps at all.
func (j *Janitor) Enabled() bool {
	return j.ttl > 0 && j.interval > 0
}

// Run sweeps once immediately and then every interval until ctx ends.
func (j *Janitor) Run(ctx context.Context) error {
	if !j.Enabled() {
		<-ctx.Done()
		return nil
	}

	j.Sweep()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep prunes expired sessions once and returns their ids.
func (j *Janitor) Sweep() []string {
	ids, err := j.pruner.Prune(j.ttl)

	j.mu.Lock()
	j.lastSweep = time.Now()
	j.pruned += len(ids)
	j.mu.Unlock()

	if err != nil {
		j.logger.Error(err)
	}
	if len(ids) > 0 {
		j.logger.Info(fmt.Sprintf("pruned %d expired session(s)", len(ids)))
	}
	return ids
}

// LastSweep returns when the last sweep finished.
func (j *Janitor) LastSweep() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastSweep
}

// Pruned returns the number of sessions removed since the janitor was created.
func (j *Janitor) Pruned() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pruned
}
