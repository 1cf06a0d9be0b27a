package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"call-quality-go/internal/types"
)

// MimeType is forced onto every accepted payload. Recording servers
// report unreliable content types, so the declared one is ignored.
const MimeType = "audio/mpeg"

const sniffLen = 500

// Validation failure codes.
const (
	CodeHTTPStatus  = "HTTP_STATUS_ERROR"
	CodeHTMLContent = "CONTENT_IS_HTML"
	CodeTooSmall    = "PAYLOAD_TOO_SMALL"
)

// ValidationError is a content-level rejection of a fetched resource.
// These are not transient; the fetch layer never retries them.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// Fetcher downloads a remote recording and rejects anything that is
// not plausibly audio.
type Fetcher struct {
	Client   *http.Client
	MinBytes int
	Log      *logrus.Entry
}

// NewFetcher uses a fixed 60s transport timeout.
func NewFetcher(minBytes int, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: 60 * time.Second},
		MinBytes: minBytes,
		Log:      log,
	}
}

// Fetch retrieves audioURL and validates the body. Checks run in
// order; the first failing one wins.
func (f *Fetcher) Fetch(ctx context.Context, audioURL string) (*types.AudioPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, &ValidationError{Code: CodeHTTPStatus, Reason: err.Error()}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ValidationError{
			Code:   CodeHTTPStatus,
			Reason: fmt.Sprintf("HTTP %d - server did not return audio", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}

	// An expired access token often comes back as a 200 error page.
	head := body
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	sniff := strings.ToLower(string(head))
	if strings.Contains(sniff, "<html") || strings.Contains(sniff, "<!doctype") {
		return nil, &ValidationError{
			Code:   CodeHTMLContent,
			Reason: "server returned HTML instead of audio (token may have expired)",
		}
	}

	if len(body) < f.MinBytes {
		return nil, &ValidationError{
			Code:   CodeTooSmall,
			Reason: fmt.Sprintf("audio too small (%d bytes) - likely empty/corrupt", len(body)),
		}
	}

	if f.Log != nil {
		f.Log.WithFields(logrus.Fields{
			"audio_url": audioURL,
			"bytes":     len(body),
		}).Debug("audio fetched and validated")
	}
	return &types.AudioPayload{Bytes: body, MimeType: MimeType}, nil
}
