package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
)

// Options configures the sync queue's explicit behaviour knobs.
// RetryAttempts counts total attempts including the first delivery, so the
// default of 3 gives a job two delayed retries before the dead-letter list.
// Raising it walks further along RetryDelays; attempts beyond the schedule
// reuse its last delay.
type Options struct {
	Enabled       bool
	QueueName     string
	RetryAttempts int
	RetryDelays   []time.Duration
}

// DefaultRetryDelays is the backoff schedule applied between mirror attempts.
var DefaultRetryDelays = []time.Duration{time.Minute, 5 * time.Minute, 15 * time.Minute}

const defaultQueueName = "sync:tasks"

// Job is the envelope stored on the queue.
type Job struct {
	ID        string          `json:"id"`
	Task      domain.SyncTask `json:"task"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue is a Redis-backed task queue with delayed retries and a dead-letter
// list. Ready jobs live on a list; retries wait in a sorted set scored by due
// time and are promoted before each dequeue.
type Queue struct {
	client *redis.Client
	opts   Options
	logger *zap.Logger
}

// NewQueue creates the sync task queue.
func NewQueue(client *redis.Client, opts Options, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.QueueName == "" {
		opts.QueueName = defaultQueueName
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if len(opts.RetryDelays) == 0 {
		opts.RetryDelays = DefaultRetryDelays
	}
	return &Queue{client: client, opts: opts, logger: logger}
}

func (q *Queue) readyKey() string     { return q.opts.QueueName }
func (q *Queue) scheduledKey() string { return q.opts.QueueName + ":scheduled" }
func (q *Queue) dlqKey() string       { return q.opts.QueueName + ":dlq" }

// Enqueue pushes a new sync task. A disabled queue drops tasks silently so
// workflow transitions stay unaffected in environments without a mirror.
func (q *Queue) Enqueue(ctx context.Context, task domain.SyncTask) error {
	if !q.opts.Enabled {
		q.logger.Debug("sync disabled, dropping task",
			zap.String("entity_type", string(task.EntityType)),
			zap.String("business_key", task.BusinessKey))
		return nil
	}

	job := Job{
		ID:        uuid.NewString(),
		Task:      task,
		Attempt:   0,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal sync job: %w", err)
	}
	if err := q.client.RPush(ctx, q.readyKey(), raw).Err(); err != nil {
		return fmt.Errorf("rpush sync job: %w", err)
	}

	q.logger.Debug("enqueued sync job",
		zap.String("job_id", job.ID),
		zap.String("entity_type", string(task.EntityType)),
		zap.String("action", string(task.Action)),
		zap.String("business_key", task.BusinessKey))
	return nil
}

// Dequeue promotes due retries, then blocks up to timeout for a ready job.
// A nil job with nil error means the wait timed out.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	if err := q.promoteDue(ctx); err != nil {
		q.logger.Warn("promote scheduled sync jobs", zap.Error(err))
	}

	result, err := q.client.BLPop(ctx, timeout, q.readyKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid sync job payload", zap.String("raw", result[1]), zap.Error(err))
		return nil, nil
	}
	return &job, nil
}

// Retry schedules the job for another attempt per the backoff schedule, or
// moves it to the dead-letter list once the attempt budget is spent.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal sync job: %w", err)
	}

	if job.Attempt >= q.opts.RetryAttempts {
		if err := q.client.RPush(ctx, q.dlqKey(), raw).Err(); err != nil {
			return fmt.Errorf("push sync job to dlq: %w", err)
		}
		q.logger.Warn("sync job permanently failed",
			zap.String("job_id", job.ID),
			zap.String("entity_type", string(job.Task.EntityType)),
			zap.String("business_key", job.Task.BusinessKey),
			zap.Int("attempt", job.Attempt))
		return nil
	}

	delay := q.delayFor(job.Attempt)
	due := time.Now().UTC().Add(delay)

	if err := q.client.ZAdd(ctx, q.scheduledKey(), redis.Z{
		Score:  float64(due.Unix()),
		Member: raw,
	}).Err(); err != nil {
		return fmt.Errorf("schedule sync retry: %w", err)
	}

	q.logger.Info("sync job scheduled for retry",
		zap.String("job_id", job.ID),
		zap.Int("attempt", job.Attempt),
		zap.Duration("delay", delay))
	return nil
}

// delayFor returns the backoff before retry number attempt (1-based),
// clamping to the schedule's last entry.
func (q *Queue) delayFor(attempt int) time.Duration {
	if attempt-1 < len(q.opts.RetryDelays) {
		return q.opts.RetryDelays[attempt-1]
	}
	return q.opts.RetryDelays[len(q.opts.RetryDelays)-1]
}

// promoteDue moves scheduled jobs whose due time has passed onto the ready list.
func (q *Queue) promoteDue(ctx context.Context) error {
	now := fmt.Sprintf("%d", time.Now().UTC().Unix())
	members, err := q.client.ZRangeByScore(ctx, q.scheduledKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return err
	}

	for _, member := range members {
		if err := q.client.ZRem(ctx, q.scheduledKey(), member).Err(); err != nil {
			return err
		}
		if err := q.client.RPush(ctx, q.readyKey(), member).Err(); err != nil {
			return err
		}
	}
	return nil
}

var _ port.SyncEnqueuer = (*Queue)(nil)
