package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Download streams a generated report file into w. Media URLs are absolute
// and live outside the API base path.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	logger := zerolog.Ctx(ctx)

	if fileURL == "" || fileURL == "#" {
		return 0, fmt.Errorf("execution has no file to download")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create download request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", fileURL, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close download body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, &APIError{Method: http.MethodGet, Path: fileURL, Status: resp.StatusCode, Body: string(body)}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", fileURL, err)
	}
	return n, nil
}
