package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"
)

// pngQuality makes FullScreenshot encode PNG instead of JPEG.
const pngQuality = 100

func captureScreenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	var buf []byte
	var action chromedp.Action = chromedp.CaptureScreenshot(&buf)
	if fullPage {
		action = chromedp.FullScreenshot(&buf, pngQuality)
	}
	if err := chromedp.Run(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("browser returned an empty screenshot")
	}
	return buf, nil
}

// writeScreenshot stores data at path, replacing any previous file.
func writeScreenshot(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for screenshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot to file: %w", err)
	}
	return nil
}
