package chrome

import (
	"context"
	"fmt"

	"github.com/alnah/go-chromepdf/internal/protocol"
)

// PageSession is one attached page target inside its own browser
// context. Sessions are reused across renders: each Print navigates the
// same page to a new document.
type PageSession struct {
	engine           *protocol.Engine
	targetID         string
	sessionID        string
	browserContextID string
	closed           bool
}

// NewSession spawns a page session. When offline is set the page is cut
// off from the network, so documents must carry their resources inline.
func (b *Browser) NewSession(ctx context.Context, offline bool) (*PageSession, error) {
	result, err := b.engine.Run(ctx, spawnSessionTemplate, protocol.Options{"offline": offline})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionSpawn, err)
	}

	targetID, _ := result["targetId"].(string)
	sessionID, _ := result["sessionId"].(string)
	contextID, _ := result["browserContextId"].(string)
	if targetID == "" || sessionID == "" {
		return nil, fmt.Errorf("%w: browser returned empty identifiers", ErrSessionSpawn)
	}

	return &PageSession{
		engine:           b.engine,
		targetID:         targetID,
		sessionID:        sessionID,
		browserContextID: contextID,
	}, nil
}

// Print navigates the page to url, waits for the frame to finish
// loading, and returns the printed PDF as base64 data. printParams are
// passed to Page.printToPDF unchanged.
func (s *PageSession) Print(ctx context.Context, url string, printParams map[string]any) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}

	result, err := s.engine.Run(ctx, printTemplate(url, printParams), protocol.Options{"sessionId": s.sessionID})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrint, err)
	}

	data, ok := result["data"].(string)
	if !ok {
		return "", fmt.Errorf("%w: printToPDF returned no data", ErrPrint)
	}
	return data, nil
}

// Close disposes the session's target and browser context. Idempotent.
func (s *PageSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	_, err := s.engine.Run(context.Background(), closeSessionTemplate(s.targetID, s.browserContextID), nil)
	if err != nil {
		return fmt.Errorf("chrome: closing session: %w", err)
	}
	return nil
}
