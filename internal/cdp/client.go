// Package cdp speaks the Chrome DevTools wire protocol over a
// websocket, feeding decoded frames into a protocol.Conn.
package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/alnah/go-chromepdf/internal/protocol"
)

// Sentinel errors for the DevTools connection.
var (
	ErrDial  = errors.New("cdp: websocket dial failed")
	ErrWrite = errors.New("cdp: websocket write failed")
)

// maxFrameSize bounds incoming frames. printToPDF returns the document
// base64-encoded inside one frame, so this must fit whole PDFs.
const maxFrameSize = 256 << 20

// Client owns one DevTools websocket connection and the protocol.Conn
// layered on top of it. The read loop runs until the socket fails or
// Close is called; either way every suspended session is purged.
type Client struct {
	ws      *websocket.Conn
	conn    *protocol.Conn
	writeMu sync.Mutex
	closing sync.Once
}

var _ protocol.Transport = (*Client)(nil)

// frame is the DevTools JSON envelope, covering calls, responses, and
// notifications. Which fields are set decides the kind.
type frame struct {
	ID        int64           `json:"id,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    map[string]any  `json:"params,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *remoteError    `json:"error,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

type remoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *remoteError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// Dial connects to a DevTools websocket endpoint (the browser-level
// URL reported by Chrome on startup) and starts the read loop.
func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{WriteBufferSize: 1 << 20, ReadBufferSize: 1 << 20}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDial, err)
	}
	ws.SetReadLimit(maxFrameSize)

	c := &Client{ws: ws}
	c.conn = protocol.NewConn(c)
	go c.readLoop()
	return c, nil
}

// Conn returns the protocol connection multiplexed over this socket.
func (c *Client) Conn() *protocol.Conn {
	return c.conn
}

// Send marshals an outgoing call. Concurrent sessions serialize here;
// gorilla/websocket allows only one writer at a time.
func (c *Client) Send(msg protocol.Message) error {
	out := frame{
		ID:        msg.ID,
		Method:    msg.Method,
		Params:    msg.Params,
		SessionID: msg.SessionID,
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteJSON(out); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// readLoop decodes incoming frames and dispatches them until the
// socket errors, then purges the protocol connection so every
// suspended session fails instead of hanging.
func (c *Client) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.conn.Purge(err)
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			// A malformed frame corrupts correlation for the whole
			// connection; treat it as fatal.
			c.conn.Purge(fmt.Errorf("cdp: malformed frame: %w", err))
			return
		}

		if f.Method != "" {
			c.conn.DispatchNotification(protocol.Notification{
				Method:    f.Method,
				SessionID: f.SessionID,
				Payload:   notificationPayload(f),
			})
			continue
		}

		resp := protocol.Response{ID: f.ID}
		if f.Error != nil {
			resp.Err = f.Error
		} else {
			resp.Payload = responsePayload(f)
		}
		c.conn.DispatchResponse(resp)
	}
}

// responsePayload rebuilds the frame as a generic tree so extraction
// paths like "result.targetId" resolve against it.
func responsePayload(f frame) map[string]any {
	payload := map[string]any{"id": f.ID}
	if len(f.Result) > 0 {
		var result map[string]any
		if err := json.Unmarshal(f.Result, &result); err == nil {
			payload["result"] = result
		}
	}
	return payload
}

func notificationPayload(f frame) map[string]any {
	payload := map[string]any{"method": f.Method}
	if f.Params != nil {
		payload["params"] = f.Params
	}
	return payload
}

// Close tears the socket down. The read loop notices and purges the
// protocol connection; calling Close more than once is safe.
func (c *Client) Close() error {
	var err error
	c.closing.Do(func() {
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.writeMu.Lock()
		_ = c.ws.WriteMessage(websocket.CloseMessage, closeMsg)
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
