package chromepdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/alnah/go-chromepdf/internal/chrome"
)

// documentRenderer abstracts HTML to PDF rendering to allow testing
// without a browser.
type documentRenderer interface {
	Render(ctx context.Context, htmlContent string, printParams map[string]any) ([]byte, error)
	Close() error
}

// pdfaConverter abstracts PDF/A post-processing.
type pdfaConverter interface {
	Convert(ctx context.Context, pdf []byte, version int) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ documentRenderer = (*chromeRenderer)(nil)

// chromeRenderer renders HTML through a pool of page sessions sharing
// one headless Chrome process. The browser is launched lazily on first
// render to avoid startup delay.
type chromeRenderer struct {
	cfg serviceConfig

	mu       sync.Mutex
	browser  *chrome.Browser
	sessions *Pool[*chrome.PageSession]
}

func newChromeRenderer(cfg serviceConfig) *chromeRenderer {
	return &chromeRenderer{cfg: cfg}
}

// ensureBrowser launches Chrome and builds the session pool once.
func (r *chromeRenderer) ensureBrowser(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return nil
	}

	browser, err := chrome.Launch(ctx, chrome.Options{
		Bin:         r.cfg.browserBin,
		NoSandbox:   r.cfg.noSandbox,
		WaitTimeout: r.cfg.timeout,
	})
	if err != nil {
		return err
	}

	offline := r.cfg.offline
	r.browser = browser
	r.sessions = NewPool(r.cfg.workers, func(ctx context.Context) (*chrome.PageSession, error) {
		return browser.NewSession(ctx, offline)
	})
	return nil
}

// Render prints htmlContent to PDF bytes. The document travels as a
// data URL, so it needs no file on disk and no web server.
func (r *chromeRenderer) Render(ctx context.Context, htmlContent string, printParams map[string]any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(ctx); err != nil {
		return nil, err
	}

	if r.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.timeout)
		defer cancel()
	}

	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlContent))

	var data string
	err := r.sessions.Checkout(ctx, func(sess *chrome.PageSession) error {
		var printErr error
		data, printErr = sess.Print(ctx, url, printParams)
		return printErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFDecode, err)
	}
	return pdf, nil
}

// Close shuts the session pool and the browser down.
func (r *chromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}

	// Closing sessions first lets Chrome dispose targets cleanly; the
	// pool close is bounded because session Close runs against a live
	// connection with the engine's wait timeout.
	poolErr := r.sessions.Close()
	browserErr := r.browser.Close()
	r.browser = nil
	r.sessions = nil
	if poolErr != nil {
		return poolErr
	}
	return browserErr
}

// defaultTimeout bounds each render when the caller sets none.
const defaultTimeout = 30 * time.Second
