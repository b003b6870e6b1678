// Package workerproc turns queue deliveries into analysis runs. It is shared
// by the long-polling worker and the Lambda handler.
package workerproc

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"makeup-backend/internal/analyses"
	"makeup-backend/internal/queue"
)

// Processor runs one analysis job.
type Processor interface {
	ProcessAnalysis(ctx context.Context, analysisID string) error
}

// Stage names the step at which a delivery was rejected.
type Stage string

const (
	StageEmpty    Stage = "empty"
	StageDecode   Stage = "decode"
	StageValidate Stage = "validate"
	StageProcess  Stage = "process"
)

// JobError describes a delivery that did not complete.
type JobError struct {
	Stage      Stage
	AnalysisID string
	RequestID  string
	BodySHA    string
	Err        error
}

func (e *JobError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("analysis job %s failed", e.Stage)
	}
	return fmt.Sprintf("analysis job %s: %v", e.Stage, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }

// Unrecoverable reports whether redelivering the message cannot help:
// the payload itself is bad, or the analysis it names no longer exists.
func Unrecoverable(err error) bool {
	var je *JobError
	if errors.As(err, &je) && je.Stage != StageProcess {
		return true
	}
	return errors.Is(err, analyses.ErrNotFound)
}

// Job is a decoded delivery.
type Job struct {
	queue.Message
	BodyLen int
	BodySHA string
}

// Decode parses and validates a queue payload. The body hash is kept so a
// poison message can be found in logs without logging its contents.
func Decode(body []byte) (Job, error) {
	job := Job{BodyLen: len(body)}
	if len(bytes.TrimSpace(body)) == 0 {
		return job, &JobError{Stage: StageEmpty, Err: errors.New("empty message body")}
	}
	sum := sha256.Sum256(body)
	job.BodySHA = hex.EncodeToString(sum[:])

	msg, err := queue.DecodeMessage(body)
	if err != nil {
		return job, &JobError{Stage: StageDecode, BodySHA: job.BodySHA, Err: err}
	}
	job.Message = msg
	if err := msg.Validate(); err != nil {
		return job, &JobError{Stage: StageValidate, RequestID: msg.RequestID, BodySHA: job.BodySHA, Err: err}
	}
	return job, nil
}

// Execute runs a decoded job with its request id attached to ctx.
func Execute(ctx context.Context, p Processor, job Job) error {
	if p == nil {
		return errors.New("analysis processor not configured")
	}
	if err := p.ProcessAnalysis(analyses.WithRequestID(ctx, job.RequestID), job.AnalysisID); err != nil {
		return &JobError{Stage: StageProcess, AnalysisID: job.AnalysisID, RequestID: job.RequestID, Err: err}
	}
	return nil
}

// HandleMessage decodes body and executes the job it carries.
func HandleMessage(ctx context.Context, p Processor, body []byte) error {
	job, err := Decode(body)
	if err != nil {
		return err
	}
	return Execute(ctx, p, job)
}
