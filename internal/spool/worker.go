package spool

import (
	"context"
	"log/slog"
	"time"

	"tomgalvin.uk/receiptprint/internal/printer"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 3
)

// Worker prints queued jobs one at a time. It wakes up every PollInterval,
// or straight away after Notify.
type Worker struct {
	Repository   *Repository
	Connection   printer.Connection
	PollInterval time.Duration
	MaxAttempts  int
	Logger       *slog.Logger

	notify chan struct{}
}

func NewWorker(r *Repository, c printer.Connection) *Worker {
	return &Worker{
		Repository:   r,
		Connection:   c,
		PollInterval: DefaultPollInterval,
		MaxAttempts:  DefaultMaxAttempts,
		Logger:       slog.Default().With("src", "spool"),
		notify:       make(chan struct{}, 1),
	}
}

// Notify wakes the worker without blocking. Several calls before the worker
// wakes up count as one.
func (w *Worker) Notify() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is cancelled, then disconnects from the
// printer. Jobs a previous run left in printing are queued again first.
func (w *Worker) Run(ctx context.Context) error {
	if n, err := w.Repository.RecoverPrinting(); err != nil {
		w.Logger.Error("Couldn't recover interrupted jobs", "err", err)
	} else if n > 0 {
		w.Logger.Info("Requeued interrupted jobs", "count", n)
	}

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()
	defer func() {
		if err := w.Connection.Disconnect(); err != nil {
			w.Logger.Warn("Couldn't disconnect from printer", "err", err)
		}
	}()

	for {
		if err := w.Drain(ctx); err != nil {
			w.Logger.Error("Couldn't process print queue", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-w.notify:
		}
	}
}

// Drain prints queued jobs until the queue is empty or a print fails. A
// failed print leaves the rest of the queue for the next round.
func (w *Worker) Drain(ctx context.Context) error {
	for ctx.Err() == nil {
		j, err := w.Repository.NextQueued()
		if err != nil {
			return err
		}
		if j == nil {
			return nil
		}

		claimed, err := w.Repository.MarkPrinting(j.Uuid)
		if err != nil {
			return err
		}
		if !claimed {
			continue
		}

		if !w.print(ctx, j) {
			return nil
		}
	}
	return nil
}

func (w *Worker) print(ctx context.Context, j *Job) bool {
	attempt := j.Attempts + 1
	logger := w.Logger.With("job", j.Uuid.String(), "attempt", attempt)
	logger.Info("Printing job", "size", len(j.Program))

	if err := printer.Send(ctx, w.Connection, j.Program); err != nil {
		retry := attempt < w.MaxAttempts
		logger.Error("Couldn't print job", "err", err, "retry", retry)
		if err := w.Repository.MarkFailed(j.Uuid, err, retry); err != nil {
			logger.Error("Couldn't record print failure", "err", err)
		}
		// force a fresh connection next time
		if err := w.Connection.Disconnect(); err != nil {
			logger.Warn("Couldn't disconnect from printer", "err", err)
		}
		return false
	}

	if err := w.Repository.MarkPrinted(j.Uuid); err != nil {
		logger.Error("Couldn't mark job printed", "err", err)
		return false
	}
	logger.Info("Printed job")
	return true
}
