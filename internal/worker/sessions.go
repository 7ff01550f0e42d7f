package worker

import (
	"context"
	"log/slog"
	"time"
)

// SessionPurger deletes admin sessions that expired before now.
type SessionPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionSweeper periodically removes expired admin sessions.
type SessionSweeper struct {
	sessions SessionPurger
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewSessionSweeper(sessions SessionPurger, interval time.Duration, logger *slog.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start sweeps once immediately, then on every tick until Stop is called or ctx ends.
func (s *SessionSweeper) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			s.sweep(cctx)
			select {
			case <-cctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the sweeper and waits for it to exit.
func (s *SessionSweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.ErrorContext(ctx, "failed to delete expired sessions", "err", err)
		}
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "deleted expired sessions", "count", n)
	}
}
