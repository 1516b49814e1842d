package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/domain"
)

// BrowserFetcher renders pages in headless Chrome and returns the resulting outer HTML.
// Use it for recipe sites that build their ingredient lists client-side.
type BrowserFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	logger      *zap.Logger
}

func NewBrowserFetcher(timeout time.Duration, logger *zap.Logger) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &BrowserFetcher{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     timeout,
		logger:      logger,
	}
}

// Fetch navigates to rawURL and returns the rendered document.
func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string, id Identity) ([]byte, error) {
	taskCtx, taskCancel := chromedp.NewContext(b.allocCtx)
	defer taskCancel()
	taskCtx, cancel := context.WithTimeout(taskCtx, b.timeout)
	defer cancel()

	// Propagate request cancellation into the browser tab.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	headers := network.Headers{}
	if id.UserAgent != "" {
		headers["User-Agent"] = id.UserAgent
	}
	if id.Accept != "" {
		headers["Accept"] = id.Accept
	}
	if id.AcceptLanguage != "" {
		headers["Accept-Language"] = id.AcceptLanguage
	}
	if err := chromedp.Run(taskCtx, network.Enable(), network.SetExtraHTTPHeaders(headers)); err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}

	resp, err := chromedp.RunResponse(taskCtx, chromedp.Navigate(rawURL))
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	if resp == nil {
		return nil, &domain.FetchError{URL: rawURL, Err: errors.New("no navigation response")}
	}
	if resp.Status < 200 || resp.Status > 299 {
		return nil, &domain.HTTPError{StatusCode: int(resp.Status), URL: rawURL}
	}

	var htmlContent string
	if err := chromedp.Run(taskCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	); err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}

	b.logger.Debug("rendered page", zap.String("url", rawURL), zap.Int("bytes", len(htmlContent)))
	return []byte(htmlContent), nil
}

// Close shuts down the browser allocator.
func (b *BrowserFetcher) Close() {
	b.allocCancel()
}
