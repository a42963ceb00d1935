package notify

import (
	"context"
	"log"
)

// Message is a fully rendered notification ready for delivery.
type Message struct {
	ID      string
	To      string
	Subject string
	Body    string
}

// Transport delivers rendered messages. Implementations must be safe for
// concurrent use; the task service dispatches from its own goroutines.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// LogTransport simulates delivery by writing the message to the process log.
// It stands in for a real mail transport in development.
type LogTransport struct {
	logger *log.Logger
}

func NewLogTransport(logger *log.Logger) *LogTransport {
	if logger == nil {
		logger = log.Default()
	}
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(_ context.Context, msg Message) error {
	t.logger.Printf("notify: sent %q to %s (message %s)", msg.Subject, msg.To, msg.ID)
	return nil
}
