package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned by every API whose credentials are missing.
var ErrNotConfigured = errors.New("integration not configured")

// APIError is a non-2xx response from a third-party API.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned HTTP %d: %s", e.Service, e.StatusCode, e.Body)
}

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
	maxBody        = 4 << 20
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// getJSON issues a GET and decodes a 2xx JSON body into dst. A non-empty
// bearer is sent in the Authorization header, never in the URL.
func getJSON(ctx context.Context, hc *http.Client, service, endpoint, bearer string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", service, redactURLError(err))
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", service, redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", service, err)
	}
	return nil
}

// redactURLError drops the query string from a *url.Error so credentials
// never reach logs.
func redactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL, _, _ = strings.Cut(uerr.URL, "?")
	}
	return err
}
