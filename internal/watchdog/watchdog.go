// Package watchdog periodically samples a table's capacity and logs a
// warning as usage approaches its fixed MaxChunks*ChunkSize ceiling, so an
// operator sees CapacityExceeded coming before a table actually goes
// read-only.
package watchdog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// capacityTable is the narrow surface Watchdog needs from a table.
type capacityTable interface {
	Capacity() (used uint64, max uint64)
	Name() string
}

// DefaultInterval matches the source's coarse-grained GC tick, repurposed
// here for a much cheaper capacity check.
const DefaultInterval = 5 * time.Second

// DefaultWarnThreshold is the fraction of capacity at which Watchdog starts
// logging warnings.
const DefaultWarnThreshold = 0.90

type Watchdog struct {
	table         capacityTable
	interval      time.Duration
	warnThreshold float64

	procCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

type Config struct {
	Table         capacityTable
	Interval      time.Duration
	WarnThreshold float64
}

func (c *Config) validate() error {
	var errs []error
	if c.Table == nil {
		errs = append(errs, errors.New("watchdog: table is required"))
	}
	if c.WarnThreshold < 0 || c.WarnThreshold > 1 {
		errs = append(errs, errors.New("watchdog: warn threshold must be within [0,1]"))
	}
	return errors.Join(errs...)
}

// New creates a new Watchdog.
func New(cfg *Config) (*Watchdog, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	threshold := cfg.WarnThreshold
	if threshold == 0 {
		threshold = DefaultWarnThreshold
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watchdog{
		table:         cfg.Table,
		interval:      interval,
		warnThreshold: threshold,
		procCtx:       ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}, nil
}

// Start satisfies app.Dependency.
func (w *Watchdog) Start() error {
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-w.procCtx.Done():
				return
			case <-ticker.C:
				w.check()
			}
		}
	}()
	return nil
}

// Stop satisfies app.Dependency.
func (w *Watchdog) Stop() error {
	w.cancel()
	<-w.done
	return nil
}

// Name satisfies app.Dependency.
func (w *Watchdog) Name() string { return "Watchdog[" + w.table.Name() + "]" }

func (w *Watchdog) check() {
	used, max := w.table.Capacity()
	if max == 0 {
		return
	}
	ratio := float64(used) / float64(max)
	if ratio < w.warnThreshold {
		return
	}
	log.Warn().
		Str("table", w.table.Name()).
		Uint64("used", used).
		Uint64("max", max).
		Float64("ratio", ratio).
		Msg("watchdog: table approaching capacity")
}
