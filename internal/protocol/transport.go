package protocol

// Message is an outgoing protocol call. ID correlates the eventual
// response; SessionID routes the call to an attached target when the
// remote multiplexes several targets over one connection.
type Message struct {
	ID        int64
	Method    string
	Params    map[string]any
	SessionID string
}

// Response is an incoming reply correlated to a call by its id.
// Payload is the full decoded message tree, so extraction paths address
// fields as "result.frameId". Err carries a protocol-level error
// reported by the peer; Payload is nil in that case.
type Response struct {
	ID      int64
	Payload map[string]any
	Err     error
}

// Notification is an unsolicited incoming message not tied to any
// outstanding call. Payload is the full decoded message tree; match and
// extraction paths address fields as "params.frameId".
type Notification struct {
	Method    string
	SessionID string
	Payload   map[string]any
}

// Transport is a connected, bidirectional asynchronous channel to one
// external process. Implementations deliver incoming traffic by calling
// Conn.DispatchResponse and Conn.DispatchNotification from their read
// loop, and Conn.Purge when the connection is lost.
type Transport interface {
	Send(msg Message) error
}
