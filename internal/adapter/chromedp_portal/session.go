package chromedp_portal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/user/psp-report-service/internal/repository"
)

// hideWebdriverScript runs before any page script so the portal does not see
// an automation-controlled navigator.
const hideWebdriverScript = `Object.defineProperty(navigator, "webdriver", { get: () => undefined });`

// Options configures the browser session and its waits.
type Options struct {
	PortalURL      string
	ChromePath     string
	UserAgent      string
	Headless       bool
	LaunchTimeout  time.Duration
	ElementTimeout time.Duration
	SettleTimeout  time.Duration
	PollInterval   time.Duration
	MaxPages       int
}

// withDefaults fills zero durations and limits.
func (o Options) withDefaults() Options {
	if o.LaunchTimeout <= 0 {
		o.LaunchTimeout = 60 * time.Second
	}
	if o.ElementTimeout <= 0 {
		o.ElementTimeout = 30 * time.Second
	}
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = 20 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 500 * time.Millisecond
	}
	return o
}

// Session is one browser tab pointed at the portal. It is owned by a single
// extraction and must be closed when that extraction ends.
type Session struct {
	ctx       context.Context
	cancel    context.CancelFunc
	opts      Options
	selectors Selectors
	closeOnce sync.Once
}

// allocatorOptions builds the Chrome command line for a session.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(1920, 1200),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}
	return allocOpts
}

// Launch starts a browser and navigates it to the portal. Any failure is
// reported as repository.ErrSessionStart and leaves nothing running.
func Launch(ctx context.Context, opts Options, selectors Selectors) (*Session, error) {
	opts = opts.withDefaults()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(debugf),
		chromedp.WithErrorf(debugf),
	)

	s := &Session{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		opts:      opts,
		selectors: selectors,
	}

	// The first Run starts the browser; it must use the session context and
	// not a shorter-lived one, or the browser dies with it.
	if err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriverScript).Do(ctx)
		return err
	})); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", repository.ErrSessionStart, err)
	}

	navCtx, cancel := context.WithTimeout(browserCtx, opts.LaunchTimeout)
	defer cancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(opts.PortalURL)); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: navigate to %s: %v", repository.ErrSessionStart, opts.PortalURL, err)
	}

	slog.Info("Browser session started", "url", opts.PortalURL, "headless", opts.Headless)
	return s, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil {
			slog.Debug("Graceful browser shutdown failed", "error", err)
		}
		s.cancel()
	})
}

// run executes actions bounded by timeout.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func debugf(format string, args ...any) {
	slog.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
}
