package workerproc

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"makeup-backend/internal/queue"
	"makeup-backend/internal/shared/metrics"
	"makeup-backend/internal/shared/telemetry"
)

const (
	OutcomeCompleted     = "completed"
	OutcomeFailed        = "failed"
	OutcomeUnrecoverable = "unrecoverable"
)

// Runner long-polls a queue and processes deliveries with bounded
// concurrency.
type Runner struct {
	Consumer    queue.Consumer
	Processor   Processor
	Concurrency int
	BatchSize   int
	Wait        time.Duration
	// Backoff is the pause after a failed receive.
	Backoff time.Duration
}

// Run polls until ctx is done, then waits for in-flight deliveries.
// Deliveries keep a context that is not cancelled by shutdown so a job
// that already started can record its outcome.
func (r *Runner) Run(ctx context.Context) error {
	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	batch := r.BatchSize
	if batch < 1 {
		batch = 10
	}
	wait := r.Wait
	if wait <= 0 {
		wait = 20 * time.Second
	}
	backoff := r.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	jobCtx := context.WithoutCancel(ctx)

	for ctx.Err() == nil {
		deliveries, err := r.Consumer.Receive(ctx, batch, wait)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				break
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			continue
		}

		for _, d := range deliveries {
			d := d
			g.Go(func() error {
				r.Handle(jobCtx, d)
				return nil
			})
		}
	}

	return g.Wait()
}

// Handle processes one delivery and acknowledges it when the job is done or
// can never succeed. It returns the outcome recorded in metrics.
func (r *Runner) Handle(ctx context.Context, d queue.Delivery) string {
	job, err := Decode(d.Body)
	fields := map[string]any{
		"message_id":    d.ID,
		"receive_count": d.ReceiveCount,
		"body_len":      job.BodyLen,
	}
	if err == nil {
		fields["analysis_id"] = job.AnalysisID
		if job.RequestID != "" {
			fields["request_id"] = job.RequestID
		}
		telemetry.Info("worker.analysis.received", fields)
		err = Execute(ctx, r.Processor, job)
	}

	switch {
	case err == nil:
		if r.ack(ctx, d, fields) {
			telemetry.Info("worker.analysis.completed", fields)
		}
		metrics.IncWorkerJob(OutcomeCompleted)
		return OutcomeCompleted
	case Unrecoverable(err):
		fields["error"] = err.Error()
		if job.BodySHA != "" {
			fields["body_sha256"] = job.BodySHA
		}
		telemetry.Error("worker.analysis.unrecoverable", fields)
		r.ack(ctx, d, fields)
		metrics.IncWorkerJob(OutcomeUnrecoverable)
		return OutcomeUnrecoverable
	default:
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.failed", fields)
		metrics.IncWorkerJob(OutcomeFailed)
		return OutcomeFailed
	}
}

func (r *Runner) ack(ctx context.Context, d queue.Delivery, fields map[string]any) bool {
	if d.ReceiptHandle == "" {
		telemetry.Error("worker.analysis.delete_failed", withError(fields, "missing receipt handle"))
		return false
	}
	if err := r.Consumer.Delete(ctx, d.ReceiptHandle); err != nil {
		telemetry.Error("worker.analysis.delete_failed", withError(fields, err.Error()))
		return false
	}
	return true
}

func withError(fields map[string]any, msg string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = msg
	return out
}
