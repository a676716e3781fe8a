package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserFetcher renders pages in headless Chrome for sites that build their
// article body with JavaScript. The browser is launched on first use.
type BrowserFetcher struct {
	bin       string
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserFetcher creates a fetcher; empty bin lets rod locate or download Chrome
func NewBrowserFetcher(bin string, timeout time.Duration, userAgent string, logger *zap.Logger) *BrowserFetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserFetcher{bin: bin, timeout: timeout, userAgent: userAgent, logger: logger}
}

func (b *BrowserFetcher) ensure() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().Headless(true)
	if b.bin != "" {
		l = l.Bin(b.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	b.logger.Debug("headless browser started", zap.String("control_url", controlURL))
	b.browser = browser
	return browser, nil
}

// Fetch loads rawURL in a fresh tab and returns the rendered DOM
func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	browser, err := b.ensure()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}
	defer func() { _ = page.Close() }()

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	p := page.Timeout(b.timeout)
	if err := p.Navigate(rawURL); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("fetch: wait load: %w", err)
	}

	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := rawURL
	if info, err := p.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &FetchResult{
		HTML:        html,
		StatusCode:  200,
		ContentType: "text/html",
		FinalURL:    finalURL,
	}, nil
}

// Close shuts the browser down if it was started
func (b *BrowserFetcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}
