package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/janisz/chgis-mcp/pkg/tgaz"
)

// maxBodyBytes caps an upstream response. Larger bodies are rejected, not truncated.
const maxBodyBytes int64 = 16 << 20

// StatusError is returned when the gazetteer answers with a non-200 status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	switch e.Code {
	case http.StatusNotFound:
		return "resource not found (404) - the requested record or endpoint does not exist"
	case http.StatusBadRequest:
		return "bad request (400) - invalid parameters or malformed request"
	case http.StatusForbidden:
		return "access denied (403) - the gazetteer refused the request"
	case http.StatusTooManyRequests:
		return "rate limit exceeded (429) - please wait before making additional requests"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Sprintf("server error (%d) - the gazetteer is experiencing technical difficulties", e.Code)
	default:
		return fmt.Sprintf("gazetteer request failed with status %d", e.Code)
	}
}

// fetch performs exactly one GET for req, bounded by req.Timeout. There is no retry.
func (s *ChgisServer) fetch(ctx context.Context, req tgaz.Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	s.logger.Info("Starting API request",
		slog.String("url", req.URL),
		slog.String("accept", req.Accept),
		slog.Duration("timeout", req.Timeout))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		s.logger.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Accept", req.Accept)
	httpReq.Header.Set("User-Agent", serverName+"/"+serverVersion)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		s.logger.Error("HTTP request failed",
			slog.String("url", req.URL),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, errors.Wrap(err, "request to gazetteer failed")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("Failed to close response body", slog.Any("error", err))
		}
	}()

	s.logger.Info("HTTP request completed",
		slog.Duration("duration", duration),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("HTTP request returned non-200 status",
			slog.Int("status", resp.StatusCode),
			slog.String("statusText", resp.Status),
			slog.String("url", req.URL))
		return nil, &StatusError{Code: resp.StatusCode, URL: req.URL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		s.logger.Error("Failed to read response body", slog.Any("error", err))
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if int64(len(body)) > maxBodyBytes {
		s.logger.Warn("Response body exceeds limit", slog.String("url", req.URL), slog.Int64("limit", maxBodyBytes))
		return nil, errors.Newf("response body exceeds %d bytes", maxBodyBytes)
	}

	s.logger.Debug("Read response body",
		slog.Int("bytes", len(body)),
		slog.String("contentType", resp.Header.Get("Content-Type")))
	return body, nil
}
