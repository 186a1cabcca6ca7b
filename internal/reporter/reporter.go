// Package reporter delivers extracted snippets to the analysis endpoint
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/averycrespi/vooshi/internal/extractor"
	"github.com/averycrespi/vooshi/pkg/types"
)

const (
	// AnalyzePath is appended to the endpoint base URL
	AnalyzePath    = "/analyze"
	defaultTimeout = 5 * time.Second
)

// AnalysisPayload is the JSON body posted to the endpoint
type AnalysisPayload struct {
	Filename       string         `json:"filename"`
	Snippet        string         `json:"snippet"`
	RelativeCursor types.Position `json:"relativeCursor"`
	IsFunction     bool           `json:"isFunction"`
}

// NewAnalysisPayload builds the wire record for an extracted context
func NewAnalysisPayload(filename string, ctx extractor.ExtractedContext) AnalysisPayload {
	return AnalysisPayload{
		Filename:       filename,
		Snippet:        ctx.Snippet,
		RelativeCursor: ctx.RelativeCursor,
		IsFunction:     ctx.IsFunction,
	}
}

// Reporter posts payloads without making the caller wait
type Reporter struct {
	url        string
	httpClient *http.Client
	inFlight   sync.WaitGroup
}

// New creates a reporter for the endpoint base URL, e.g. http://localhost:5000
func New(endpoint string, timeout time.Duration) (*Reporter, error) {
	target, err := AnalyzeURL(endpoint)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Reporter{
		url:        target,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// AnalyzeURL joins the endpoint base URL and the analyze path
func AnalyzeURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to parse endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("endpoint %q must be an http or https URL", endpoint)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + AnalyzePath
	return u.String(), nil
}

// URL returns the full analyze URL
func (r *Reporter) URL() string {
	return r.url
}

// Send starts delivering the payload in the background and returns
// immediately. Failures are logged and dropped
func (r *Reporter) Send(payload AnalysisPayload) {
	id := uuid.NewString()
	slog.Debug("Queueing snippet", "send_id", id, "filename", payload.Filename, "is_function", payload.IsFunction)

	r.inFlight.Add(1)
	go func() {
		defer r.inFlight.Done()

		if err := r.post(context.Background(), payload); err != nil {
			slog.Error("Failed to send snippet", "send_id", id, "url", r.url, "error", err)
			return
		}
		slog.Debug("Snippet delivered", "send_id", id, "url", r.url)
	}()
}

// Report converts an extracted context and sends it
func (r *Reporter) Report(filename string, ctx extractor.ExtractedContext) {
	r.Send(NewAnalysisPayload(filename, ctx))
}

func (r *Reporter) post(ctx context.Context, payload AnalysisPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post snippet: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned %s", resp.Status)
	}
	return nil
}

// Close waits for in-flight sends to finish or for ctx to expire
func (r *Reporter) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("gave up waiting for in-flight sends: %w", ctx.Err())
	}
}
