package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultIdleTimeout   = 60 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Reaper periodically evicts rooms that saw no activity for idleTimeout.
// Eviction is immediate: connected clients are disconnected, nothing is
// announced.
type Reaper struct {
	rooms       RoomRepository
	clock       Clock
	idleTimeout time.Duration
	interval    time.Duration
	onEvict     func(ctx context.Context, code string)
	log         zerolog.Logger
}

// ReaperOption customizes a Reaper.
type ReaperOption func(*Reaper)

func WithReaperClock(clock Clock) ReaperOption {
	return func(r *Reaper) { r.clock = clock }
}

func WithReaperLogger(log zerolog.Logger) ReaperOption {
	return func(r *Reaper) { r.log = log }
}

// WithEvictHook registers a callback run after each eviction, e.g. to
// clear mirrored state.
func WithEvictHook(hook func(ctx context.Context, code string)) ReaperOption {
	return func(r *Reaper) { r.onEvict = hook }
}

func NewReaper(rooms RoomRepository, idleTimeout, interval time.Duration, opts ...ReaperOption) *Reaper {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	r := &Reaper{
		rooms:       rooms,
		clock:       SystemClock(),
		idleTimeout: idleTimeout,
		interval:    interval,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sweep evicts every room idle since before now-idleTimeout and returns
// the evicted codes.
func (r *Reaper) Sweep(ctx context.Context) []string {
	cutoff := r.clock.Now().Add(-r.idleTimeout)

	var evicted []string
	for _, code := range r.rooms.Codes() {
		room, ok := r.rooms.Get(code)
		if !ok || !room.CloseIfIdle(cutoff) {
			continue
		}
		r.rooms.Delete(code)
		evicted = append(evicted, code)
		r.log.Info().Str("room", code).Msg("evicted idle room")
		if r.onEvict != nil {
			r.onEvict(ctx, code)
		}
	}
	return evicted
}

// Run sweeps on a fixed interval until ctx is done.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}
