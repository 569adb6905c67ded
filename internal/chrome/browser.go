// Package chrome launches a headless Chrome process and exposes page
// sessions driven through the protocol step engine.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-chromepdf/internal/cdp"
	"github.com/alnah/go-chromepdf/internal/process"
	"github.com/alnah/go-chromepdf/internal/protocol"
)

// Sentinel errors for browser lifecycle operations.
var (
	ErrLaunch        = errors.New("chrome: failed to launch browser")
	ErrConnect       = errors.New("chrome: failed to connect to browser")
	ErrSessionSpawn  = errors.New("chrome: failed to spawn page session")
	ErrPrint         = errors.New("chrome: PDF print failed")
	ErrSessionClosed = errors.New("chrome: page session already closed")
)

// Options configures the launched browser.
type Options struct {
	// Bin overrides browser binary discovery. Empty means the launcher
	// resolves an installed browser (or downloads Chromium).
	Bin string

	// NoSandbox is required in most containerized environments.
	NoSandbox bool

	// WaitTimeout bounds every protocol suspension point.
	WaitTimeout time.Duration
}

// Browser is one headless Chrome process with its DevTools connection.
// All page sessions share the connection; the protocol layer keeps
// their conversations apart.
type Browser struct {
	launcher *launcher.Launcher
	client   *cdp.Client
	engine   *protocol.Engine
}

// Launch starts headless Chrome and connects to its DevTools endpoint.
// The ROD_BROWSER_BIN environment variable overrides binary discovery,
// matching the launcher's conventions for containerized use.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	l := launcher.New().Headless(true)

	bin := opts.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if opts.NoSandbox || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	client, err := cdp.Dial(ctx, u)
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	engineOpts := []protocol.EngineOption{}
	if opts.WaitTimeout > 0 {
		engineOpts = append(engineOpts, protocol.WithWaitTimeout(opts.WaitTimeout))
	}

	return &Browser{
		launcher: l,
		client:   client,
		engine:   protocol.NewEngine(client.Conn(), engineOpts...),
	}, nil
}

// Engine returns the protocol engine bound to this browser's
// connection.
func (b *Browser) Engine() *protocol.Engine {
	return b.engine
}

// Close disconnects and kills the browser process. Process-group kill
// is a backstop for Chrome child processes the launcher may leave
// behind.
func (b *Browser) Close() error {
	err := b.client.Close()
	b.launcher.Kill()
	if pid := b.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	return err
}
