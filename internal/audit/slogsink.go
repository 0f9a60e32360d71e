package audit

import (
	"context"
	"log/slog"
)

// SlogSink writes audit events to the process log. Default when no broker or
// search cluster is configured, and handy in tests.
type SlogSink struct {
	Log *slog.Logger
}

func (s *SlogSink) Deliver(_ context.Context, e Event) error {
	s.Log.Info("audit",
		"id", e.ID,
		"type", e.Type,
		"message", e.Message,
		"user_id", e.UserID,
		"entity_id", e.EntityID,
	)
	return nil
}

func (s *SlogSink) Close() error { return nil }
