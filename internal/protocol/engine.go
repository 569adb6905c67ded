package protocol

import (
	"context"
	"fmt"
	"time"
)

// DefaultWaitTimeout bounds each suspension point unless overridden.
const DefaultWaitTimeout = 30 * time.Second

// Engine interprets step templates against one connection. Multiple
// sessions may run concurrently on the same engine; each Run call is
//strictly sequential internally while the connection keeps delivering
// events for the others.
type Engine struct {
	conn        *Conn
	waitTimeout time.Duration
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithWaitTimeout sets the per-suspension bound.
func WithWaitTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.waitTimeout = d
		}
	}
}

// NewEngine creates an engine bound to conn.
func NewEngine(conn *Conn, opts ...EngineOption) *Engine {
	e := &Engine{conn: conn, waitTimeout: DefaultWaitTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Conn returns the underlying protocol connection.
func (e *Engine) Conn() *Conn {
	return e.conn
}

// Run executes a template with the given options. Conditional branches
// are resolved against opts before the first step runs. The first error
// aborts the remaining steps; partial state is never returned.
func (e *Engine) Run(ctx context.Context, template []Step, opts Options) (Result, error) {
	s := newSession(template, opts)
	s.status = StatusRunning

	var result Result
	for s.index = 0; s.index < len(s.steps); s.index++ {
		step := s.steps[s.index]
		var err error
		switch step.kind {
		case stepCall:
			err = e.runCall(s, step)
		case stepAwaitResponse:
			err = e.runAwaitResponse(ctx, s, step)
		case stepAwaitNotification:
			err = e.runAwaitNotification(ctx, s, step)
		case stepOutput:
			result, err = e.runOutput(s, step)
		}
		if err != nil {
			s.status = StatusFailed
			return nil, err
		}
	}
	s.status = StatusCompleted
	return result, nil
}

// runCall fires a method call and queues its correlation id. The call
// itself never suspends; a later AwaitResponse consumes the reply.
func (e *Engine) runCall(s *session, step Step) error {
	params := make(map[string]any, len(step.params)+len(step.stateParams))
	for k, v := range step.params {
		params[k] = v
	}
	for _, key := range step.stateParams {
		v, ok := s.state[key]
		if !ok {
			return fmt.Errorf("%w: call %q references unset state key %q", ErrBadTemplate, step.method, key)
		}
		params[key] = v
	}

	id, ch, err := e.conn.call(Message{
		Method:    step.method,
		Params:    params,
		SessionID: s.sessionID,
	})
	if err != nil {
		return err
	}
	s.pending = append(s.pending, pendingCall{id: id, ch: ch})
	return nil
}

// runAwaitResponse suspends until the reply to the oldest un-awaited
// call arrives, then extracts the requested fields.
func (e *Engine) runAwaitResponse(ctx context.Context, s *session, step Step) error {
	if len(s.pending) == 0 {
		return fmt.Errorf("%w: await_response without a preceding call", ErrBadTemplate)
	}
	pc := s.pending[0]
	s.pending = s.pending[1:]

	timer := time.NewTimer(e.waitTimeout)
	defer timer.Stop()

	s.status = StatusSuspended
	defer func() { s.status = StatusRunning }()

	select {
	case resp := <-pc.ch:
		if resp.Err != nil {
			return fmt.Errorf("%w: %v", ErrRemote, resp.Err)
		}
		return extractAll(s, step.extract, resp.Payload)
	case <-timer.C:
		e.conn.unregisterCall(pc.id)
		return fmt.Errorf("%w: no response after %v", ErrTimeout, e.waitTimeout)
	case <-ctx.Done():
		e.conn.unregisterCall(pc.id)
		return ctx.Err()
	case <-e.conn.Done():
		return fmt.Errorf("%w: %v", ErrTransportClosed, e.conn.Err())
	}
}

// runAwaitNotification suspends until a notification matching the
// step's predicate arrives. Non-matching notifications pass by without
// touching this or any other session.
func (e *Engine) runAwaitNotification(ctx context.Context, s *session, step Step) error {
	pred := predicate{
		method:     step.notification,
		sessionID:  s.sessionID,
		conditions: make([]fieldCondition, 0, len(step.match)),
	}
	for _, m := range step.match {
		want, ok := s.state[m.Key]
		if !ok {
			return fmt.Errorf("%w: notification %q matches against unset state key %q", ErrBadTemplate, step.notification, m.Key)
		}
		pred.conditions = append(pred.conditions, fieldCondition{path: m.Path, want: want})
	}

	ch, cancel := e.conn.awaitNotification(pred)
	defer cancel()

	timer := time.NewTimer(e.waitTimeout)
	defer timer.Stop()

	s.status = StatusSuspended
	defer func() { s.status = StatusRunning }()

	select {
	case n := <-ch:
		return extractAll(s, step.extract, n.Payload)
	case <-timer.C:
		return fmt.Errorf("%w: no %q notification after %v", ErrTimeout, step.notification, e.waitTimeout)
	case <-ctx.Done():
		return ctx.Err()
	case <-e.conn.Done():
		return fmt.Errorf("%w: %v", ErrTransportClosed, e.conn.Err())
	}
}

// runOutput copies the named state values into the session result.
func (e *Engine) runOutput(s *session, step Step) (Result, error) {
	result := make(Result, len(step.outputs))
	for _, key := range step.outputs {
		v, ok := s.state[key]
		if !ok {
			return nil, fmt.Errorf("%w: output references unset state key %q", ErrBadTemplate, key)
		}
		result[key] = v
	}
	return result, nil
}

// extractAll applies extraction rules to a payload, failing on the
// first absent path.
func extractAll(s *session, rules []ExtractRule, payload map[string]any) error {
	for _, r := range rules {
		v, ok := lookupPath(payload, r.Path)
		if !ok {
			return fmt.Errorf("%w: path %q", ErrExtraction, r.Path)
		}
		s.put(r.Key, v)
	}
	return nil
}
