package main

// SQS event source entrypoint with partial batch responses enabled
// (ReportBatchItemFailures). Build with:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -tags lambda.norpc -o bootstrap ./cmd/lambda-worker

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"makeup-backend/internal/bootstrap"
	"makeup-backend/internal/shared/metrics"
	"makeup-backend/internal/shared/telemetry"
	"makeup-backend/internal/workerproc"
)

var app = &bootstrap.Lazy{}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	built, err := app.Get()
	if err != nil {
		// Returning the error fails the whole batch back to SQS.
		return events.SQSEventResponse{}, err
	}
	return processBatch(ctx, built.AnalysisProcessor, event), nil
}

// processBatch reports retryable failures so Lambda redelivers only those
// records. Malformed or orphaned messages are dropped.
func processBatch(ctx context.Context, p workerproc.Processor, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, p, []byte(record.Body))
		switch {
		case err == nil:
			metrics.IncWorkerJob(workerproc.OutcomeCompleted)
		case workerproc.Unrecoverable(err):
			metrics.IncWorkerJob(workerproc.OutcomeUnrecoverable)
			telemetry.Warn("lambda_worker.message_dropped", map[string]any{
				"message_id": record.MessageId,
				"error":      err.Error(),
			})
		default:
			metrics.IncWorkerJob(workerproc.OutcomeFailed)
			telemetry.Error("lambda_worker.message_failed", map[string]any{
				"message_id": record.MessageId,
				"error":      err.Error(),
			})
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
