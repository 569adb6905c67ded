package chromepdf

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-chromepdf/internal/pdfa"
	"github.com/alnah/go-chromepdf/internal/pipeline"
)

// serviceConfig holds resolved Service settings.
type serviceConfig struct {
	timeout    time.Duration
	workers    int
	browserBin string
	gsBin      string
	noSandbox  bool
	offline    bool
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout bounds each conversion, including every protocol wait.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cfg.timeout = d
		}
	}
}

// WithWorkers fixes the page-session and converter pool sizes. Zero
// selects the GOMAXPROCS-derived default (see ResolvePoolSize).
func WithWorkers(n int) Option {
	return func(s *Service) { s.cfg.workers = n }
}

// WithBrowserBin overrides browser binary discovery.
func WithBrowserBin(path string) Option {
	return func(s *Service) { s.cfg.browserBin = path }
}

// WithGhostscriptBin overrides the Ghostscript executable used for
// PDF/A conversion.
func WithGhostscriptBin(path string) Option {
	return func(s *Service) { s.cfg.gsBin = path }
}

// WithNoSandbox disables the Chrome sandbox, required in most
// containerized environments.
func WithNoSandbox() Option {
	return func(s *Service) { s.cfg.noSandbox = true }
}

// WithOfflineRendering cuts pages off from the network, so documents
// must carry their resources inline.
func WithOfflineRendering() Option {
	return func(s *Service) { s.cfg.offline = true }
}

// withRenderer injects a renderer (used by tests).
func withRenderer(r documentRenderer) Option {
	return func(s *Service) { s.renderer = r }
}

// withPDFAConverter injects a converter factory (used by tests).
func withPDFAConverter(factory func() pdfaConverter) Option {
	return func(s *Service) { s.pdfaFactory = factory }
}

// Service orchestrates the document-to-PDF pipeline: source
// preparation, browser rendering, and optional PDF/A post-processing.
// A Service is safe for concurrent use; throughput is bounded by its
// worker pools.
type Service struct {
	cfg           serviceConfig
	htmlConverter *pipeline.GoldmarkConverter
	renderer      documentRenderer
	pdfaFactory   func() pdfaConverter
	pdfaPool      *Pool[pdfaConverter]
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithWorkers, WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:           serviceConfig{timeout: defaultTimeout},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cfg.workers = ResolvePoolSize(s.cfg.workers)

	if s.renderer == nil {
		s.renderer = newChromeRenderer(s.cfg)
	}
	if s.pdfaFactory == nil {
		gsBin := s.cfg.gsBin
		s.pdfaFactory = func() pdfaConverter {
			if gsBin != "" {
				return pdfa.NewConverter(pdfa.WithBin(gsBin))
			}
			return pdfa.NewConverter()
		}
	}
	s.pdfaPool = NewPool(s.cfg.workers, func(context.Context) (pdfaConverter, error) {
		return s.pdfaFactory(), nil
	})

	return s
}

// Convert runs the full pipeline and returns the PDF as bytes.
// The context is used for cancellation and timeout.
func (s *Service) Convert(ctx context.Context, input Input) ([]byte, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	htmlContent := input.HTML
	if input.Markdown != "" {
		converted, err := s.htmlConverter.ToHTML(ctx, input.Markdown)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		htmlContent = converted
	}

	if input.CSS != "" {
		htmlContent = pipeline.InjectCSS(htmlContent, input.CSS)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	pdf, err := s.renderer.Render(ctx, htmlContent, input.Page.printParams())
	if err != nil {
		return nil, err
	}

	if input.PDFA != nil {
		version := input.PDFA.version()
		var converted []byte
		err := s.pdfaPool.Checkout(ctx, func(conv pdfaConverter) error {
			var convErr error
			converted, convErr = conv.Convert(ctx, pdf, version)
			return convErr
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPDFAConversion, err)
		}
		pdf = converted
	}

	return pdf, nil
}

// Close releases resources: the browser, its page sessions, and any
// converter handles.
func (s *Service) Close() error {
	poolErr := s.pdfaPool.Close()
	rendererErr := s.renderer.Close()
	if rendererErr != nil {
		return rendererErr
	}
	return poolErr
}

// validateInput checks that required fields are present and valid.
func (s *Service) validateInput(input Input) error {
	if input.HTML == "" && input.Markdown == "" {
		return ErrEmptySource
	}
	if input.HTML != "" && input.Markdown != "" {
		return ErrAmbiguousSource
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.PDFA.Validate(); err != nil {
		return err
	}
	return nil
}
