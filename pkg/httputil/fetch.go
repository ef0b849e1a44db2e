package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/pulsegraph/pkg/cache"
	apperrors "github.com/matzehuels/pulsegraph/pkg/errors"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the remote document doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// defaultClient is shared by all Fetch calls that don't bring their own.
var defaultClient = NewHTTPClient()

// NewHTTPClient creates an HTTP client with a standard timeout for input requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// IsURL reports whether ref names a remote input rather than a local file.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Fetch performs an HTTP GET and returns the response body. Transient
// failures (network errors, 429, 5xx) are retried with exponential backoff;
// a 404 returns ErrNotFound immediately. Pass nil to use the default client.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if err := apperrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if client == nil {
		client = defaultClient
	}

	var body []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var ferr error
		body, ferr = fetchOnce(ctx, client, rawURL)
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return body, nil
}

func fetchOnce(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
