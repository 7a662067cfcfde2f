package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository"
	"github.com/stemsi/transfer-backend/internal/service"
)

const (
	ReevaluateBatchTimeout = 2 * time.Second
	ReevaluatePollTimeout  = 1 * time.Second
	ReevaluateMaxAttempts  = 5
	shutdownFlushTimeout   = 10 * time.Second
)

// JobSource is the queue the worker drains.
type JobSource interface {
	Pop(ctx context.Context, timeout time.Duration) (*repository.ReevaluationJob, error)
	Requeue(ctx context.Context, job repository.ReevaluationJob) error
}

// Verifier re-runs a student's verification.
type Verifier interface {
	VerifyByID(ctx context.Context, studentID int) (*model.EligibilityRecord, error)
}

// ReevaluationWorker re-verifies students whose transcript, profile or target
// changed, so connected clients see a fresh report without asking for one.
type ReevaluationWorker struct {
	queue     JobSource
	verifier  Verifier
	batchSize int
	log       zerolog.Logger
}

func NewReevaluationWorker(queue JobSource, verifier Verifier, batchSize int, log zerolog.Logger) *ReevaluationWorker {
	return &ReevaluationWorker{
		queue:     queue,
		verifier:  verifier,
		batchSize: batchSize,
		log:       log.With().Str("component", "reevaluation_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ReevaluationWorker) Start(ctx context.Context) {
	w.log.Info().Int("batch_size", w.batchSize).Msg("ReevaluationWorker started")

	batch := make([]repository.ReevaluationJob, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= w.batchSize || time.Since(lastFlush) >= ReevaluateBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
			w.flushSafe(flushCtx, batch)
			cancel()
			return

		default:
			job, err := w.queue.Pop(ctx, ReevaluatePollTimeout)
			if err != nil {
				if ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Pop error")
				}
				continue
			}
			if job == nil {
				continue
			}
			batch = append(batch, *job)
		}
	}
}

// ----------------------------------------------------------------
// Batch processing
// ----------------------------------------------------------------

// flushSafe verifies each distinct student in the batch once. Students whose
// profile cannot be verified are dropped; other failures go back on the
// queue until ReevaluateMaxAttempts.
func (w *ReevaluationWorker) flushSafe(ctx context.Context, batch []repository.ReevaluationJob) {
	if len(batch) == 0 {
		return
	}

	jobs := dedupe(batch)
	verified := 0
	for _, job := range jobs {
		rec, err := w.verifier.VerifyByID(ctx, job.StudentID)
		if err == nil {
			verified++
			w.log.Debug().
				Int("student_id", job.StudentID).
				Int("version", rec.Version).
				Str("reason", job.Reason).
				Msg("Student re-evaluated")
			continue
		}

		if isPermanent(err) {
			w.log.Info().Err(err).Int("student_id", job.StudentID).Msg("Skipping re-evaluation")
			continue
		}

		job.Attempts++
		if job.Attempts >= ReevaluateMaxAttempts {
			w.log.Error().Err(err).Int("student_id", job.StudentID).Int("attempts", job.Attempts).Msg("Giving up on re-evaluation")
			continue
		}
		w.log.Warn().Err(err).Int("student_id", job.StudentID).Msg("Re-evaluation failed, requeueing")
		if err := w.queue.Requeue(ctx, job); err != nil {
			w.log.Error().Err(err).Int("student_id", job.StudentID).Msg("Requeue failed")
		}
	}

	w.log.Info().
		Int("jobs", len(batch)).
		Int("students", len(jobs)).
		Int("verified", verified).
		Msg("Re-evaluation batch flushed")
}

// dedupe keeps the first job per student in arrival order.
func dedupe(batch []repository.ReevaluationJob) []repository.ReevaluationJob {
	seen := make(map[int]struct{}, len(batch))
	out := make([]repository.ReevaluationJob, 0, len(batch))
	for _, job := range batch {
		if _, ok := seen[job.StudentID]; ok {
			continue
		}
		seen[job.StudentID] = struct{}{}
		out = append(out, job)
	}
	return out
}

func isPermanent(err error) bool {
	var precondition *service.PreconditionError
	return errors.As(err, &precondition) ||
		errors.Is(err, service.ErrMajorUnsupported) ||
		errors.Is(err, service.ErrStudentNotFound)
}
