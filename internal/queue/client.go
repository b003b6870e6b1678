package queue

import (
	"context"
	"time"
)

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Delivery is one received message and the handle needed to acknowledge it.
type Delivery struct {
	ID            string
	Body          []byte
	ReceiptHandle string
	ReceiveCount  int
}

// Consumer pulls and acknowledges messages.
type Consumer interface {
	Receive(ctx context.Context, max int, wait time.Duration) ([]Delivery, error)
	Delete(ctx context.Context, receiptHandle string) error
}
