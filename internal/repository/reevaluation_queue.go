package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/transfer-backend/internal/config"
)

// ReevaluationJob asks the background worker to re-run a student's
// verification.
type ReevaluationJob struct {
	StudentID  int       `json:"student_id"`
	Reason     string    `json:"reason"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	Attempts   int       `json:"attempts,omitempty"`
}

// ReevaluationQueue is the Redis list drained by the re-evaluation worker.
type ReevaluationQueue struct {
	rdb *redis.Client
}

// NewReevaluationQueue creates a new ReevaluationQueue.
func NewReevaluationQueue(rdb *redis.Client) *ReevaluationQueue {
	return &ReevaluationQueue{rdb: rdb}
}

// Enqueue appends a job for the student.
func (q *ReevaluationQueue) Enqueue(ctx context.Context, studentID int, reason string) error {
	return q.push(ctx, ReevaluationJob{StudentID: studentID, Reason: reason, EnqueuedAt: time.Now().UTC()})
}

// Requeue puts a job back at the tail after a transient failure.
func (q *ReevaluationQueue) Requeue(ctx context.Context, job ReevaluationJob) error {
	return q.push(ctx, job)
}

func (q *ReevaluationQueue) push(ctx context.Context, job ReevaluationJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, config.WorkerKey.ReevaluateStudentsQueue, raw).Err()
}

// Pop blocks up to timeout for the next job. It returns nil, nil when the
// queue stays empty.
func (q *ReevaluationQueue) Pop(ctx context.Context, timeout time.Duration) (*ReevaluationJob, error) {
	item, err := q.rdb.BLPop(ctx, timeout, config.WorkerKey.ReevaluateStudentsQueue).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(item) < 2 {
		return nil, nil
	}

	var job ReevaluationJob
	if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Len reports how many jobs are waiting.
func (q *ReevaluationQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, config.WorkerKey.ReevaluateStudentsQueue).Result()
}
