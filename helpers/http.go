package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// NewHTTPClient returns a client bounded by the given timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// FetchPage sends a single GET with a fixed User-Agent and returns the body as UTF-8
// along with the response status, which is 0 when no response arrived.
// Any non-2xx status is an error.
func FetchPage(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("fetch %s unexpected status code: %d", url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	body, err := toUTF8(bodyBytes, resp.Header.Get("Content-Type"))
	return body, resp.StatusCode, err
}

// toUTF8 converts a body to UTF-8 based on the Content-Type header and body sniffing
func toUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, certain := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") || (!certain && utf8.Valid(body)) {
		return body, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, encoding.NewDecoder().Reader(bytes.NewReader(body))); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return buf.Bytes(), nil
}
