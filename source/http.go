package source

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/sharedcode/doctree"
)

const (
	defaultHTTPRetryMax     = 3
	defaultHTTPRetryWaitMin = 100 * time.Millisecond
	defaultHTTPRetryWaitMax = 2 * time.Second
	defaultHTTPTimeout      = 30 * time.Second
)

// HTTP GETs JSON documents at BaseURL + address. 5xx responses and connection errors are
// retried by the client, a 404 is reported as doctree.ErrDocumentNotFound.
type HTTP struct {
	BaseURL string
	client  *retryablehttp.Client
}

// NewHTTP returns an HTTP source. retryMax < 0 uses the default.
func NewHTTP(baseURL string, retryMax int) *HTTP {
	if retryMax < 0 {
		retryMax = defaultHTTPRetryMax
	}
	return &HTTP{
		BaseURL: baseURL,
		client: &retryablehttp.Client{
			HTTPClient: &http.Client{
				Transport: cleanhttp.DefaultPooledTransport(),
				Timeout:   defaultHTTPTimeout,
			},
			Logger:       log.Default(),
			RetryWaitMin: defaultHTTPRetryWaitMin,
			RetryWaitMax: defaultHTTPRetryWaitMax,
			RetryMax:     retryMax,
			CheckRetry:   retryablehttp.DefaultRetryPolicy,
			Backoff:      retryablehttp.DefaultBackoff,
		},
	}
}

func (h *HTTP) Fetch(ctx context.Context, address string) (doctree.Document, error) {
	url := h.BaseURL + address
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, doctree.ErrDocumentNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	ba, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return Decode(url, ba)
}
