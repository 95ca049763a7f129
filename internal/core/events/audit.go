package events

import (
	"context"
	"log/slog"
)

// AuditLogger writes one structured log line per domain event.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With("component", "audit")}
}

func (a *AuditLogger) Handle(ctx context.Context, event Event) error {
	attrs := []any{
		"event_id", event.EventID(),
		"event_type", event.EventType(),
		"occurred_at", event.OccurredAt(),
	}
	if actor, ok := event.(interface{ Actor() string }); ok && actor.Actor() != "" {
		attrs = append(attrs, "actor_id", actor.Actor())
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		for k, v := range data {
			attrs = append(attrs, k, v)
		}
	}
	a.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}

// Register subscribes the audit logger to every event on bus.
func (a *AuditLogger) Register(bus *EventBus) {
	bus.Subscribe(AllEvents, a.Handle)
}
