// Package chromepdf renders HTML and Markdown documents to PDF by
// driving headless Chrome over the DevTools protocol, with optional
// PDF/A post-processing through Ghostscript.
//
// Basic usage:
//
//	svc := chromepdf.New(chromepdf.WithWorkers(2))
//	defer svc.Close()
//
//	pdf, err := svc.Convert(ctx, chromepdf.Input{
//		HTML: "<h1>Invoice</h1>",
//		PDFA: &chromepdf.PDFASettings{Version: 2},
//	})
//
// One Service owns a single Chrome process. Concurrent conversions run
// against a bounded pool of isolated page sessions multiplexed over the
// browser's DevTools connection; PDF/A conversions run against a
// separate pool of Ghostscript workers. Pool sizes default to half the
// available CPUs (see ResolvePoolSize).
//
// The DevTools conversation itself is interpreted from declarative step
// templates by internal/protocol, which correlates out-of-order
// responses and unsolicited events across the sessions sharing the
// connection.
package chromepdf
