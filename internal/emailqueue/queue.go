package emailqueue

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPending   = "retainflow:emailq:pending"
	keyDelayed   = "retainflow:emailq:delayed"
	keyCompleted = "retainflow:emailq:completed"
	keyFailed    = "retainflow:emailq:failed"
)

// Queue is the Redis-backed email job broker. Pending jobs sit in a list,
// retries wait in a sorted set scored by their ready-at time, and the last
// completed/failed payloads are kept in capped lists for inspection.
type Queue struct {
	client *redis.Client
	cfg    Config
	log    *zap.Logger
}

func NewQueue(client *redis.Client, cfg Config, log *zap.Logger) *Queue {
	return &Queue{
		client: client,
		cfg:    cfg.withDefaults(),
		log:    log.Named("emailqueue"),
	}
}

func (q *Queue) Add(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, keyPending, payload).Err()
}

func (q *Queue) AddBulk(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}
	payloads := make([]any, 0, len(jobs))
	for _, job := range jobs {
		payload, err := json.Marshal(job)
		if err != nil {
			return err
		}
		payloads = append(payloads, payload)
	}
	return q.client.LPush(ctx, keyPending, payloads...).Err()
}

// PopPending blocks up to timeout for the next job. The bool result reports
// whether a job was dequeued. A popped job is gone from Redis: a crash before
// Complete/Fail/RetryLater drops it, so delivery is at-least-once only within
// a process lifetime.
func (q *Queue) PopPending(ctx context.Context, timeout time.Duration) (Job, bool, error) {
	res, err := q.client.BRPop(ctx, timeout, keyPending).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, false, nil
		}
		return Job{}, false, err
	}
	if len(res) != 2 {
		return Job{}, false, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		q.log.Warn("discarding undecodable job payload", zap.Error(err))
		return Job{}, false, nil
	}
	return job, true, nil
}

// RetryLater parks a job in the delayed set until readyAt.
func (q *Queue) RetryLater(ctx context.Context, job Job, readyAt time.Time) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.ZAdd(ctx, keyDelayed, redis.Z{
		Score:  float64(readyAt.UnixMilli()),
		Member: payload,
	}).Err()
}

// PromoteDelayed moves all due delayed jobs back onto the pending list.
func (q *Queue) PromoteDelayed(ctx context.Context, now time.Time) (int, error) {
	due, err := q.client.ZRangeByScore(ctx, keyDelayed, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	pipe := q.client.TxPipeline()
	for _, payload := range due {
		pipe.LPush(ctx, keyPending, payload)
		pipe.ZRem(ctx, keyDelayed, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return len(due), nil
}

// Complete records the job in a capped inspection list.
func (q *Queue) Complete(ctx context.Context, job Job) error {
	return q.record(ctx, keyCompleted, job, q.cfg.CompletedKeep)
}

// Fail records the permanently failed job in a capped inspection list.
func (q *Queue) Fail(ctx context.Context, job Job) error {
	return q.record(ctx, keyFailed, job, q.cfg.FailedKeep)
}

func (q *Queue) record(ctx context.Context, key string, job Job, keep int64) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, keep-1)
	_, err = pipe.Exec(ctx)
	return err
}
