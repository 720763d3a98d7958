package actor

import "log/slog"

// Event is one request-lifecycle record sent to the audit log.
type Event struct {
	Phase      string // "start" or "done"
	RequestID  string
	Method     string
	Path       string
	Status     int
	DurationMS int64
	Error      string
}

type auditState struct {
	logger *slog.Logger
	lines  int64
}

// AuditLog is a serialized log sink. Events from any number of in-flight
// requests are written strictly one at a time, in arrival order.
type AuditLog struct {
	inner *Actor[auditState]
}

// NewAuditLog starts an AuditLog writing through the given logger.
func NewAuditLog(logger *slog.Logger) *AuditLog {
	return &AuditLog{inner: Start(auditState{logger: logger}, 256)}
}

// Record enqueues one event.
func (l *AuditLog) Record(ev Event) {
	l.inner.Tell(func(s *auditState) {
		s.lines++
		switch ev.Phase {
		case "start":
			s.logger.Info("request start",
				"request_id", ev.RequestID,
				"method", ev.Method,
				"path", ev.Path,
			)
		default:
			if ev.Error != "" {
				s.logger.Warn("request failed",
					"request_id", ev.RequestID,
					"method", ev.Method,
					"path", ev.Path,
					"status", ev.Status,
					"duration_ms", ev.DurationMS,
					"err", ev.Error,
				)
				return
			}
			s.logger.Info("request done",
				"request_id", ev.RequestID,
				"method", ev.Method,
				"path", ev.Path,
				"status", ev.Status,
				"duration_ms", ev.DurationMS,
			)
		}
	})
}

// Lines returns the number of events written so far, observing every
// Record enqueued before the call.
func (l *AuditLog) Lines() int64 {
	return Ask(l.inner, func(s *auditState) int64 { return s.lines })
}

// Stop drains pending events and stops the consumer.
func (l *AuditLog) Stop() {
	l.inner.Stop()
}
