// Package worker runs background maintenance for the catalog server.
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/robinjoseph08/golib/logger"
)

// Sweeper removes sessions that expired before now.
type Sweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Worker struct {
	interval time.Duration
	log      logger.Logger
	sweeper  Sweeper
	now      func() time.Time

	shutdown chan struct{}
	done     chan struct{}
}

func New(cfg *config.Config, sweeper Sweeper) *Worker {
	return &Worker{
		interval: cfg.SessionSweepInterval,
		log:      logger.New(),
		sweeper:  sweeper,
		now:      time.Now,

		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go w.sweepSessions()
}

func (w *Worker) sweepSessions() {
	timer := time.NewTimer(w.interval)

	for {
		select {
		case <-w.shutdown:
			timer.Stop()
			w.done <- struct{}{}
			return
		case <-timer.C:
			w.sweep()
			timer.Reset(w.interval)
		}
	}
}

func (w *Worker) sweep() {
	id, err := uuid.NewRandom()
	if err != nil {
		w.log.Err(err).Error("new uuid error")
		return
	}
	log := w.log.ID(id.String()).Root(logger.Data{"task": "session_sweep"})
	ctx := log.WithContext(context.Background())

	n, err := w.sweeper.DeleteExpired(ctx, w.now())
	if err != nil {
		log.Err(err).Error("session sweep error")
		return
	}
	if n > 0 {
		log.Info("expired sessions removed", logger.Data{"count": n})
	}
}

func (w *Worker) Shutdown() {
	close(w.shutdown)
	<-w.done
}
