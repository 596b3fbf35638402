package chromedp_portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/psp-report-service/internal/listing"
)

// stablePolls is how many consecutive identical table snapshots count as settled.
const stablePolls = 2

var errWaitTimeout = errors.New("condition not met before timeout")

// poll runs cond every PollInterval until it returns true or timeout elapses.
// Evaluation errors are retried; the page may be mid re-render.
func (s *Session) poll(timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}
		select {
		case <-ctx.Done():
			if s.ctx.Err() != nil {
				return s.ctx.Err()
			}
			if lastErr != nil {
				return fmt.Errorf("%w: %v", errWaitTimeout, lastErr)
			}
			return errWaitTimeout
		case <-ticker.C:
		}
	}
}

// evalBool evaluates a script returning a boolean.
func evalBool(ctx context.Context, script string) (bool, error) {
	var ok bool
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &ok))
	return ok, err
}

// tableHTML returns the current listing table markup, "" when it is not rendered.
func (s *Session) tableHTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.Evaluate(s.selectors.tableHTMLScript(), &html))
	return html, err
}

// settleTracker decides when successive table snapshots have stopped changing.
type settleTracker struct {
	previous      string
	requireChange bool
	last          string
	lastHTML      string
	stable        int
}

// observe records a snapshot and reports whether the table has settled. With
// requireChange, stable content matching previous does not count.
func (t *settleTracker) observe(html string) bool {
	if html == "" {
		t.last, t.lastHTML, t.stable = "", "", 0
		return false
	}
	fp := fingerprintOf(html)
	if fp == t.last {
		t.stable++
	} else {
		t.last, t.lastHTML, t.stable = fp, html, 1
	}
	if t.stable < stablePolls {
		return false
	}
	return !t.requireChange || t.last != t.previous
}

// stableHTML returns the last snapshot if it was stable, changed or not.
func (t *settleTracker) stableHTML() string {
	if t.stable >= stablePolls {
		return t.lastHTML
	}
	return ""
}

// refreshed resolves a wait for new content. When the wait timed out on a
// table that stayed stable but unchanged, the selection matched what was
// already shown and that table is accepted.
func (t *settleTracker) refreshed(err error) (string, error) {
	if err == nil {
		return t.lastHTML, nil
	}
	if errors.Is(err, errWaitTimeout) {
		if html := t.stableHTML(); html != "" {
			return html, nil
		}
	}
	return t.lastHTML, err
}

// waitSettled blocks until the listing table renders the same content on
// consecutive polls. With requireChange, content matching previous does not
// count. It returns the settled markup.
func (s *Session) waitSettled(previous string, requireChange bool) (string, error) {
	tracker := &settleTracker{previous: previous, requireChange: requireChange}
	err := s.watch(tracker)
	return tracker.lastHTML, err
}

// waitRefreshed waits for the listing to re-render after a filter change,
// accepting unchanged content only once SettleTimeout has passed.
func (s *Session) waitRefreshed(previous string) (string, error) {
	tracker := &settleTracker{previous: previous, requireChange: true}
	return tracker.refreshed(s.watch(tracker))
}

func (s *Session) watch(tracker *settleTracker) error {
	return s.poll(s.opts.SettleTimeout, func(ctx context.Context) (bool, error) {
		html, err := s.tableHTML(ctx)
		if err != nil {
			return false, err
		}
		return tracker.observe(html), nil
	})
}

// snapshot fingerprints the table currently on screen, "" when there is none.
func (s *Session) snapshot() string {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ElementTimeout)
	defer cancel()
	html, err := s.tableHTML(ctx)
	if err != nil || html == "" {
		return ""
	}
	return fingerprintOf(html)
}

func fingerprintOf(html string) string {
	return listing.TableFingerprint(html)
}
