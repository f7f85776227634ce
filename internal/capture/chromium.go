// Package capture rasterizes the rendered SVG document to PNG with a
// headless Chromium instance driven via chromedp.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

const defaultTimeout = 30 * time.Second

// Options defines parameters for one screenshot capture.
type Options struct {
	// SVGPath is the local SVG file to rasterize.
	SVGPath string

	// OutputPath is where the PNG will be written.
	OutputPath string

	// Width and Height set the viewport; they should match the SVG canvas
	// size so the screenshot is pixel-exact.
	Width  int
	Height int

	// Timeout bounds the entire capture. Zero means a 30s default.
	Timeout time.Duration
}

// SVGToPNG loads the SVG in headless Chromium at the requested viewport and
// writes a full-page PNG screenshot.
func SVGToPNG(parentCtx context.Context, opts Options) error {
	if opts.SVGPath == "" {
		return fmt.Errorf("capture: SVGPath is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("capture: viewport %dx%d is invalid", opts.Width, opts.Height)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	abs, err := filepath.Abs(opts.SVGPath)
	if err != nil {
		return fmt.Errorf("capture: resolve svg path: %w", err)
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate("file://" + abs),
		// SVG paints synchronously, but give Chromium a beat to settle
		// fonts before the screenshot.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
