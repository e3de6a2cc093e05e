package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/pkg/metrics"
)

// maxResponseBytes guards against a misbehaving upstream.
const maxResponseBytes = 8 << 20

// getJSON performs a GET and decodes the body into out. Transport and
// decode failures both surface as ErrUnavailable; only an upstream 404 is
// left to the caller to interpret via the returned status code.
func getJSON(ctx context.Context, o options, p model.Platform, url string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	return doJSON(o, p, req, out)
}

// postJSON performs a POST with a JSON body and decodes the response.
func postJSON(ctx context.Context, o options, p model.Platform, url string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("%w: encode request: %w", ErrUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON(o, p, req, out)
}

func doJSON(o options, p model.Platform, req *http.Request, out any) (int, error) {
	start := time.Now()
	resp, err := o.client.Do(req)
	latency := float64(time.Since(start).Milliseconds())
	metrics.RecordFetchLatency(string(p), latency)
	if err != nil {
		metrics.RecordFetch(string(p), "transport_error")
		return 0, fmt.Errorf("%w: %s: %w", ErrUnavailable, p, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		// Not-found semantics differ per platform; let the caller decide.
		metrics.RecordFetch(string(p), "not_found")
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetch(string(p), "bad_status")
		return resp.StatusCode, fmt.Errorf("%w: %s returned %d", ErrUnavailable, p, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.RecordFetch(string(p), "read_error")
		return resp.StatusCode, fmt.Errorf("%w: read %s response: %w", ErrUnavailable, p, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		metrics.RecordFetch(string(p), "decode_error")
		return resp.StatusCode, fmt.Errorf("%w: decode %s response: %w", ErrUnavailable, p, err)
	}
	metrics.RecordFetch(string(p), "ok")
	return resp.StatusCode, nil
}
