package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	ApplicationJSON  = "application/json"
	ApplicationPDF   = "application/pdf"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:140.0) Gecko/20100101 Firefox/140.0"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), body)
}

// loggingTransport logs every round trip at debug level. Only method, host,
// path, status and duration are logged; headers and query strings are not.
type loggingTransport struct {
	next http.RoundTripper
}

// NewHTTPClient returns an http.Client whose requests are logged through the
// logger found in the request context.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: &loggingTransport{next: http.DefaultTransport}}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := zerolog.Ctx(req.Context()).With().
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Logger()

	started := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		logger.Debug().Err(err).Dur("duration", time.Since(started)).Msg("request failed")
		return nil, err
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("request done")
	return resp, nil
}

// do sends the request and returns the body of a 2xx response.
func do(ctx context.Context, httpClient *http.Client, req *http.Request) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method: req.Method,
			Path:   req.URL.Path,
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}

	return body, nil
}

func doJSON(ctx context.Context, httpClient *http.Client, req *http.Request, out any) error {
	body, err := do(ctx, httpClient, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
