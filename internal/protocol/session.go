package protocol

// Status tracks a session through its lifecycle. StatusSuspended is the
// waiting refinement of running: the session has parked on an
// AwaitResponse or AwaitNotification and resumes (or fails) when the
// matching event, a timeout, or connection loss arrives.
type Status int

const (
	StatusNotStarted Status = iota
	StatusRunning
	StatusSuspended
	StatusCompleted
	StatusFailed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusRunning:
		return "running"
	case StatusSuspended:
		return "suspended"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// session is one run of a flattened template against a connection. A
// session executes strictly in declaration order and never has two
// unresolved suspensions at once.
type session struct {
	steps     []Step
	opts      Options
	state     map[string]any
	sessionID string
	index     int
	status    Status

	// pending queues the correlation ids of calls fired but not yet
	// awaited, consumed FIFO by AwaitResponse steps.
	pending []pendingCall
}

type pendingCall struct {
	id int64
	ch chan Response
}

func newSession(template []Step, opts Options) *session {
	s := &session{
		steps:  flatten(template, opts),
		opts:   opts,
		state:  make(map[string]any),
		status: StatusNotStarted,
	}
	if id, ok := opts["sessionId"].(string); ok {
		s.sessionID = id
	}
	return s
}

// put writes an extracted value and adopts a freshly extracted session
// id for subsequent calls on this session.
func (s *session) put(key string, value any) {
	s.state[key] = value
	if key == "sessionId" {
		if id, ok := value.(string); ok {
			s.sessionID = id
		}
	}
}
