package maintenance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

var ErrAlreadyStarted = errors.New("maintenance task already started")

// Service re-applies the schema and seed on a fixed interval.
type Service struct {
	initializer interfaces.SchemaInitializer
	logger      logger.Logger
	interval    time.Duration

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewService(initializer interfaces.SchemaInitializer, logger logger.Logger, interval time.Duration) *Service {
	return &Service{
		initializer: initializer,
		logger:      logger,
		interval:    interval,
	}
}

// Start launches the background loop. Only the first call starts it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.logger.Info("maintenance_started", "Periodic schema maintenance started", "", map[string]interface{}{
		"interval_seconds": int(s.interval.Seconds()),
	})

	go s.loop(ctx, done)
	return nil
}

// Stop cancels the loop and waits for it to exit. It is a no-op if the
// loop was never started.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Service) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("maintenance_stopped", "Periodic schema maintenance stopped", "", nil)
			return
		case <-ticker.C:
			// Errors are logged in RunOnce; the next tick tries again.
			_ = s.RunOnce(ctx)
		}
	}
}

// RunOnce applies the schema and seed now.
func (s *Service) RunOnce(ctx context.Context) error {
	start := time.Now()
	requestID := logger.RequestID(ctx)

	if err := s.initializer.Ensure(ctx); err != nil {
		s.logger.Error("maintenance_failed", "Schema maintenance failed", requestID, nil, err)
		return err
	}

	s.logger.Debug("maintenance_completed", "Schema maintenance completed", requestID, map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
