package protocol

import "fmt"

// Options is the immutable input configuration a session runs against.
// Conditional steps branch on it before execution starts; it is never
// mutated by the engine.
type Options map[string]any

// Result holds the named values an Output step returns to the caller.
type Result map[string]any

type stepKind int

const (
	stepCall stepKind = iota
	stepAwaitResponse
	stepAwaitNotification
	stepOutput
	stepConditional
)

// Step is one instruction in a protocol template. Steps are built with
// Call, AwaitResponse, AwaitNotification, Output, and If, and are
// immutable once a template is assembled.
type Step struct {
	kind stepKind

	// Call
	method      string
	stateParams []string
	params      map[string]any

	// AwaitResponse / AwaitNotification
	notification string
	match        []MatchRule
	extract      []ExtractRule

	// Output
	outputs []string

	// Conditional
	cond func(Options) bool
	body []Step
}

// ExtractRule copies the value at Path in an incoming payload into the
// session state under Key.
type ExtractRule struct {
	Path string
	Key  string
}

// MatchRule requires the value at Path in a candidate notification to
// equal the session-state value stored under Key.
type MatchRule struct {
	Path string
	Key  string
}

// Extract builds an ExtractRule.
func Extract(path, key string) ExtractRule {
	return ExtractRule{Path: path, Key: key}
}

// Match builds a MatchRule.
func Match(path, key string) MatchRule {
	return MatchRule{Path: path, Key: key}
}

// Call fires a protocol method. Parameters are the session-state values
// named by stateParams (sent under their own key names) merged with the
// literal params map. A Call does not suspend; the following
// AwaitResponse consumes its reply.
func Call(method string, stateParams []string, params map[string]any) Step {
	return Step{kind: stepCall, method: method, stateParams: stateParams, params: params}
}

// AwaitResponse suspends the session until the reply to the oldest
// un-awaited Call arrives, then applies the extraction rules to it.
func AwaitResponse(extract ...ExtractRule) Step {
	return Step{kind: stepAwaitResponse, extract: extract}
}

// AwaitNotification suspends the session until a notification with the
// given method arrives whose payload satisfies every match rule, then
// applies the extraction rules. Non-matching notifications are
// discarded without side effects.
func AwaitNotification(method string, match []MatchRule, extract ...ExtractRule) Step {
	return Step{kind: stepAwaitNotification, notification: method, match: match, extract: extract}
}

// Output terminates the session, returning the named session-state
// values as the result.
func Output(keys ...string) Step {
	return Step{kind: stepOutput, outputs: keys}
}

// If includes the nested steps only when cond holds for the session's
// options. The branch is resolved once, before execution starts; a
// skipped branch sends nothing and mutates nothing.
func If(cond func(Options) bool, steps ...Step) Step {
	return Step{kind: stepConditional, cond: cond, body: steps}
}

// flatten resolves every Conditional against opts, producing the fixed
// step sequence for one run.
func flatten(steps []Step, opts Options) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if s.kind == stepConditional {
			if s.cond != nil && s.cond(opts) {
				out = append(out, flatten(s.body, opts)...)
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// Validate checks a template's state-key dataflow: no step may
// reference a key that no earlier step can have produced, and every
// AwaitResponse must have a preceding un-awaited Call. Conditional
// bodies are checked as if taken. "sessionId" counts as pre-set since a
// session may receive one through its options.
func Validate(steps []Step) error {
	produced := map[string]bool{"sessionId": true}
	_, err := validateSteps(steps, produced, 0)
	return err
}

func validateSteps(steps []Step, produced map[string]bool, pendingCalls int) (int, error) {
	for _, s := range steps {
		switch s.kind {
		case stepCall:
			for _, key := range s.stateParams {
				if !produced[key] {
					return 0, fmt.Errorf("%w: call %q references unset state key %q", ErrBadTemplate, s.method, key)
				}
			}
			pendingCalls++
		case stepAwaitResponse:
			if pendingCalls == 0 {
				return 0, fmt.Errorf("%w: await_response without a preceding call", ErrBadTemplate)
			}
			pendingCalls--
			for _, r := range s.extract {
				produced[r.Key] = true
			}
		case stepAwaitNotification:
			for _, m := range s.match {
				if !produced[m.Key] {
					return 0, fmt.Errorf("%w: notification %q matches against unset state key %q", ErrBadTemplate, s.notification, m.Key)
				}
			}
			for _, r := range s.extract {
				produced[r.Key] = true
			}
		case stepOutput:
			for _, key := range s.outputs {
				if !produced[key] {
					return 0, fmt.Errorf("%w: output references unset state key %q", ErrBadTemplate, key)
				}
			}
		case stepConditional:
			var err error
			pendingCalls, err = validateSteps(s.body, produced, pendingCalls)
			if err != nil {
				return 0, err
			}
		}
	}
	return pendingCalls, nil
}
