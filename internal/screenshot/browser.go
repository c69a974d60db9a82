package screenshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	Width       = 1200
	Height      = 675
	Quality     = 90
	LoadTimeout = 30 * time.Second
)

// Browser is one headless Chrome reused for every screenshot.
type Browser struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewBrowser starts the shared headless instance. Close releases it.
func NewBrowser(parent context.Context) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.WindowSize(Width, Height),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelTab := chromedp.NewContext(allocCtx)

	// warm up so the first shot does not pay for the browser start
	if err := chromedp.Run(ctx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return &Browser{ctx: ctx, cancelAlloc: cancelAlloc, cancelTab: cancelTab}, nil
}

func (b *Browser) Close() {
	b.cancelTab()
	b.cancelAlloc()
}

// Shoot loads url in a fresh tab and captures the 1200x675 viewport as WebP.
// A document status other than 200 yields a *StatusError.
func (b *Browser) Shoot(ctx context.Context, url string) ([]byte, error) {
	tab, cancel := chromedp.NewContext(b.ctx)
	defer cancel()
	tab, cancelTimeout := context.WithTimeout(tab, LoadTimeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	resp, err := chromedp.RunResponse(tab,
		chromedp.EmulateViewport(Width, Height),
		chromedp.Navigate(url),
	)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	if resp == nil || resp.Status != 200 {
		status := int64(0)
		if resp != nil {
			status = resp.Status
		}
		return nil, &StatusError{URL: url, Status: int(status)}
	}

	var buf []byte
	err = chromedp.Run(tab,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatWebp).
				WithQuality(Quality).
				Do(ctx)
			buf = data
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}
	return buf, nil
}
