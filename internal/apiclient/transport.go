package apiclient

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs each request and its outcome. Bodies are never logged.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug("api request", "method", req.Method, "path", req.URL.Path)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Warn("api request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	t.logger.Info("api response",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}
