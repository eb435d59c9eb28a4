// Package notification captures outbound customer notifications. The
// production transport is swappable behind Sink; the default sink keeps
// messages in memory and logs them, matching what the admin dashboard's
// dev tooling expects.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification message.
type Kind string

const (
	KindPaymentConfirmed        Kind = "payment_confirmed"
	KindPaymentRejected         Kind = "payment_rejected"
	KindEnrollmentSuccessful    Kind = "enrollment_successful"
	KindManualPaymentRegistered Kind = "manual_payment_registered"
)

// Message is one recorded notification.
type Message struct {
	ID      string    `json:"id"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Kind    Kind      `json:"kind"`
	SentAt  time.Time `json:"sent_at"`
}

// Sink records or delivers a notification. Implementations must not
// block the caller on delivery.
type Sink interface {
	Send(ctx context.Context, to, subject, body string, kind Kind) Message
}

// MemorySink stores messages in memory. Construct one per process (or
// per test) and inject it; there is no package-level store.
type MemorySink struct {
	logger *slog.Logger

	mu       sync.Mutex
	messages []Message
}

// NewMemorySink constructs an in-memory sink that also logs each message.
func NewMemorySink(logger *slog.Logger) *MemorySink {
	return &MemorySink{logger: logger}
}

// Send records the message and returns it.
func (s *MemorySink) Send(ctx context.Context, to, subject, body string, kind Kind) Message {
	msg := Message{
		ID:      uuid.NewString(),
		To:      to,
		Subject: subject,
		Body:    body,
		Kind:    kind,
		SentAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "notification sent",
		"to", to,
		"subject", subject,
		"kind", string(kind),
	)

	return msg
}

// All returns a copy of every recorded message in send order.
func (s *MemorySink) All() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear discards all recorded messages.
func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
