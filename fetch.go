package animimg

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ByteSource resolves a URL into raw bytes and a reported media type.
// Transport details (proxying, CORS, retries) belong to implementations;
// the pipeline only consumes the resulting buffer.
type ByteSource interface {
	Fetch(ctx context.Context, url string) (data []byte, mediaType string, err error)
}

// maxFetchBytes caps a single fetched image. Stream overlays pull
// user-supplied URLs, so an unbounded read is a real hazard.
const maxFetchBytes = 64 << 20 // 64 MiB

// HTTPSource fetches bytes over HTTP(S).
type HTTPSource struct {
	// Client is the HTTP client to use; nil means http.DefaultClient.
	Client *http.Client
}

// Fetch implements ByteSource.
func (s *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("animimg: fetch %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("animimg: fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("animimg: fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("animimg: fetch %s: %w", url, err)
	}
	if len(data) > maxFetchBytes {
		return nil, "", fmt.Errorf("animimg: fetch %s: response exceeds %d bytes", url, maxFetchBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
