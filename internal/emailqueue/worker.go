package emailqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/config"
	obsmetrics "github.com/retainflow/retainflow/internal/observability/metrics"
	"github.com/retainflow/retainflow/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type disposition int

const (
	dispositionCompleted disposition = iota
	dispositionRetry
	dispositionFailed
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Queue   *Queue
	Email   email.Provider
	AppCfg  config.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
	Config  Config              `optional:"true"`
}

// Worker consumes email jobs with bounded concurrency. Delivery is
// at-least-once: a transient failure after a successful send re-enqueues the
// job and can duplicate the email.
type Worker struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	queue   *Queue
	email   email.Provider
	cfg     Config
	metrics *obsmetrics.Metrics
	baseURL string
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:      p.DB,
		log:     p.Log.Named("emailqueue.worker"),
		genID:   p.GenID,
		queue:   p.Queue,
		email:   p.Email,
		cfg:     p.Config.withDefaults(),
		metrics: p.Metrics,
		baseURL: p.AppCfg.TemplateBaseURL,
	}
}

// Run blocks until ctx is cancelled, dispatching jobs to a bounded pool.
func (w *Worker) Run(ctx context.Context) {
	go w.promoteLoop(ctx)

	slots := make(chan struct{}, w.cfg.Concurrency)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, ok, err := w.queue.PopPending(ctx, w.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("failed to pop email job", zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		slots <- struct{}{}
		go func(job Job) {
			defer func() { <-slots }()
			w.Handle(ctx, job)
		}(job)
	}
}

func (w *Worker) promoteLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PromoteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.queue.PromoteDelayed(ctx, time.Now().UTC()); err != nil && ctx.Err() == nil {
				w.log.Warn("failed to promote delayed jobs", zap.Error(err))
			}
		}
	}
}

// Handle runs one delivery attempt and routes the job to completed, delayed
// or failed according to the retry budget.
func (w *Worker) Handle(ctx context.Context, job Job) {
	job.Attempts++
	deliverErr := w.deliver(ctx, job)

	next, delay := Disposition(job, deliverErr, w.cfg)
	switch next {
	case dispositionCompleted:
		if err := w.queue.Complete(ctx, job); err != nil {
			w.log.Warn("failed to record completed job", zap.String("job_id", job.ID), zap.Error(err))
		}
		w.count(string(job.Template), "completed")
	case dispositionRetry:
		w.log.Warn("email delivery failed, retrying",
			zap.String("job_id", job.ID),
			zap.Int("attempt", job.Attempts),
			zap.Duration("delay", delay),
			zap.Error(deliverErr),
		)
		if err := w.queue.RetryLater(ctx, job, time.Now().UTC().Add(delay)); err != nil {
			w.log.Error("failed to re-enqueue job", zap.String("job_id", job.ID), zap.Error(err))
		}
		w.count(string(job.Template), "retried")
	case dispositionFailed:
		w.log.Error("email job exhausted retries",
			zap.String("job_id", job.ID),
			zap.Int("attempts", job.Attempts),
			zap.Error(deliverErr),
		)
		if err := w.queue.Fail(ctx, job); err != nil {
			w.log.Warn("failed to record failed job", zap.String("job_id", job.ID), zap.Error(err))
		}
		w.count(string(job.Template), "failed")
	}
}

func (w *Worker) deliver(ctx context.Context, job Job) error {
	logID := w.genID.Generate()
	pixelURL := fmt.Sprintf("%s/track/email/%s.gif", w.baseURL, logID.String())

	subject, body, err := Render(job, w.baseURL, pixelURL)
	if err != nil {
		return err
	}

	if err := w.email.Send(ctx, []string{job.To}, subject, body); err != nil {
		return err
	}

	entry := &EmailLog{
		ID:        logID,
		Recipient: job.To,
		Template:  string(job.Template),
		SentAt:    time.Now().UTC(),
	}
	if userID, err := snowflake.ParseString(job.UserID); err == nil {
		entry.UserID = userID
	}
	// The send already happened; a bookkeeping failure must not retry it.
	if err := InsertEmailLog(ctx, w.db, entry); err != nil {
		w.log.Warn("failed to record email log", zap.String("job_id", job.ID), zap.Error(err))
	}
	return nil
}

// Disposition decides where a job goes after a delivery attempt.
func Disposition(job Job, deliverErr error, cfg Config) (disposition, time.Duration) {
	if deliverErr == nil {
		return dispositionCompleted, 0
	}
	if job.Attempts >= cfg.MaxAttempts {
		return dispositionFailed, 0
	}
	return dispositionRetry, Backoff(job.Attempts, cfg.RetryBackoff)
}

// Backoff doubles the base delay for every completed attempt.
func Backoff(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

func (w *Worker) count(template, status string) {
	if w.metrics != nil {
		w.metrics.EmailJobsTotal.WithLabelValues(template, status).Inc()
	}
}
