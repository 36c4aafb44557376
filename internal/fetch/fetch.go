// Package fetch performs the single HTTP GET behind every page the
// pipeline reads.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/44.0.2403.157 Safari/537.36"
	DefaultAcceptLanguage = "en-US, en;q=0.5"
	DefaultTimeout        = 30 * time.Second

	// maxBodyBytes limits the size of a fetched page.
	maxBodyBytes = 10 * 1024 * 1024
)

// ErrBodyTooLarge is wrapped by the FetchError for a page over the size limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Options configures a Fetcher. Zero fields take the defaults above.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	Client         *http.Client
}

// Fetcher retrieves page bodies. The site rejects requests without a
// browser user agent, so one is set on every request.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
	maxBody        int64
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = DefaultAcceptLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if client.Timeout == 0 || client.Timeout > opts.Timeout {
		c := *client
		c.Timeout = opts.Timeout
		client = &c
	}
	return &Fetcher{
		client:         client,
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
		maxBody:        maxBodyBytes,
	}
}

// Fetch returns the body of url. Transport failures, timeouts and non-2xx
// responses are reported as *models.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", f.acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &models.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &models.FetchError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, &models.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBody {
		return nil, &models.FetchError{URL: url, Err: fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, f.maxBody)}
	}
	return body, nil
}
