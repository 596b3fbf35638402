package resty_fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/user/psp-report-service/internal/repository"
)

// Options configures spreadsheet downloads.
type Options struct {
	Timeout            time.Duration
	Retries            int
	RetryWait          time.Duration
	InsecureSkipVerify bool
	UserAgent          string
}

// FetcherImpl implements repository.SpreadsheetFetcher over HTTP(S).
type FetcherImpl struct {
	client *resty.Client
}

// NewFetcher creates a fetcher. The report portal serves its files with a
// certificate chain that does not verify, so InsecureSkipVerify is normally on.
func NewFetcher(opts Options) *FetcherImpl {
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryWait * 4).
		AddRetryCondition(func(res *resty.Response, err error) bool {
			return err != nil || res.StatusCode() >= http.StatusInternalServerError
		})
	if opts.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &FetcherImpl{client: client}
}

// Fetch downloads url and returns its body.
func (f *FetcherImpl) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("download %s: %w: %d", url, repository.ErrUnexpectedStatus, res.StatusCode())
	}

	slog.Debug("Downloaded report", "url", url, "bytes", len(res.Body()), "duration_ms", time.Since(start).Milliseconds())
	return res.Body(), nil
}

var _ repository.SpreadsheetFetcher = (*FetcherImpl)(nil)
