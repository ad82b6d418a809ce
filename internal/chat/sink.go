package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/downtime/internal/domain/activity"
)

// Message is one chat entry.
type Message struct {
	ID       string        `json:"id,omitempty"`
	UserID   string        `json:"user_id"`
	Speaker  string        `json:"speaker"`
	Kind     activity.Kind `json:"kind"`
	Content  string        `json:"content"`
	PostedAt time.Time     `json:"posted_at"`
}

// Sink accepts chat messages. Post returns once the message is delivered.
type Sink interface {
	Post(ctx context.Context, msg Message) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, msg Message) error

func (f SinkFunc) Post(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Mirror delivers to one primary sink and copies each delivered message to
// the mirrors. Post returns only the primary's error. Mirror failures are
// logged and dropped.
type Mirror struct {
	primary Sink
	mirrors []Sink
	logger  *slog.Logger
}

func NewMirror(primary Sink, logger *slog.Logger, mirrors ...Sink) *Mirror {
	m := &Mirror{primary: primary, logger: logger}
	for _, s := range mirrors {
		if s != nil {
			m.mirrors = append(m.mirrors, s)
		}
	}
	return m
}

func (m *Mirror) Post(ctx context.Context, msg Message) error {
	if err := m.primary.Post(ctx, msg); err != nil {
		return err
	}
	for _, s := range m.mirrors {
		if err := s.Post(ctx, msg); err != nil && m.logger != nil {
			m.logger.Warn("chat mirror failed", "kind", msg.Kind, "user_id", msg.UserID, "error", err)
		}
	}
	return nil
}
