package agent

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/richinex/nexus/internal/observability"
	"github.com/richinex/nexus/llm"
	"github.com/richinex/nexus/stream"
)

// session is the state of one Run call. It is owned by the producer
// goroutine and never shared.
type session struct {
	id         string
	ctx        context.Context
	events     chan<- stream.Event
	logger     zerolog.Logger
	thread     []llm.ChatMessage
	iterations int
	failed     bool
}

func newSession(ctx context.Context, events chan<- stream.Event, logger zerolog.Logger, req Request) *session {
	id := observability.NewCorrelationID()
	return &session{
		id:     id,
		ctx:    ctx,
		events: events,
		logger: logger.With().
			Str("session_id", id).
			Str("client_id", req.ClientID).
			Str("feature_id", req.FeatureID).
			Logger(),
	}
}

// emit delivers an event unless the session was cancelled. It reports
// whether the event was delivered.
func (s *session) emit(e stream.Event) bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case s.events <- e:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// fail reports a fatal session error.
func (s *session) fail(msg string) {
	s.failed = true
	s.emit(stream.Error(msg))
}

func (s *session) append(msg llm.ChatMessage) {
	s.thread = append(s.thread, msg)
}

func (s *session) outcome() string {
	switch {
	case s.ctx.Err() != nil:
		return observability.OutcomeCancelled
	case s.failed:
		return observability.OutcomeFailed
	default:
		return observability.OutcomeCompleted
	}
}
