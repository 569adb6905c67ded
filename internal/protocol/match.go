package protocol

import (
	"reflect"
	"strconv"
	"strings"
)

// predicate is the resolved form of an AwaitNotification step: the
// expected method plus every field condition with its expected value
// already read from session state at registration time.
type predicate struct {
	method     string
	sessionID  string
	conditions []fieldCondition
}

type fieldCondition struct {
	path string
	want any
}

// matches reports whether n satisfies p. It is a pure function of its
// arguments; a non-match leaves no trace anywhere.
func (p predicate) matches(n Notification) bool {
	if n.Method != p.method {
		return false
	}
	if p.sessionID != "" && n.SessionID != p.sessionID {
		return false
	}
	for _, c := range p.conditions {
		got, ok := lookupPath(n.Payload, c.path)
		if !ok || !valueEqual(got, c.want) {
			return false
		}
	}
	return true
}

// lookupPath walks a dotted path into a tree-structured payload.
// Segments index maps by key and slices by decimal position, e.g.
// "targetInfos.0.targetId".
func lookupPath(payload map[string]any, path string) (any, bool) {
	var node any = payload
	for _, seg := range strings.Split(path, ".") {
		switch v := node.(type) {
		case map[string]any:
			child, ok := v[seg]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			node = v[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// valueEqual compares two decoded payload values. JSON decoding yields
// string, float64, bool, nil, maps, and slices; DeepEqual covers all of
// them without panicking on the composite kinds.
func valueEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
