package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"call-quality-go/internal/config"
	"call-quality-go/internal/retry"
)

// Client talks to an OpenAI-compatible gateway for both transcription
// and analysis. It is constructed once and shared by every worker; all
// fields are immutable after construction. The client performs single
// attempts only - retrying is the caller's concern.
type Client struct {
	gatewayURL string
	apiKey     string
	model      string
	mock       bool
	http       *http.Client
	log        *logrus.Entry
}

func NewClient(cfg config.Config, log *logrus.Entry) *Client {
	return &Client{
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		mock:       cfg.UseMockLLM,
		http:       &http.Client{Timeout: 120 * time.Second},
		log:        log,
	}
}

// Transcribe sends the audio inline and returns the diarized text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if c.mock {
		return mockTranscript, nil
	}
	format := "mp3"
	if i := strings.IndexByte(mimeType, '/'); i >= 0 {
		format = mimeType[i+1:]
	}
	content := []map[string]any{
		{"type": "text", "text": TranscriptionPrompt},
		{"type": "input_audio", "input_audio": map[string]string{
			"data":   base64.StdEncoding.EncodeToString(audio),
			"format": format,
		}},
	}
	return c.complete(ctx, content)
}

// Analyze runs the extraction prompt over a transcript and returns the
// raw table text.
func (c *Client) Analyze(ctx context.Context, transcriptText string) (string, error) {
	if c.mock {
		return mockTable, nil
	}
	return c.complete(ctx, ExtractionPrompt+"\n"+transcriptText)
}

// complete posts one chat completion. content is either a string or a
// multi-part slice. Client errors (4xx) come back marked permanent so
// the retry layer does not burn attempts on them.
func (c *Client) complete(ctx context.Context, content any) (string, error) {
	if c.gatewayURL == "" || c.apiKey == "" {
		return "", retry.Permanent(fmt.Errorf("llm gateway not configured"))
	}
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
		"temperature": 0.0,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(data))
	if err != nil {
		return "", retry.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if c.log != nil {
			c.log.WithField("error", err.Error()).Warn("gateway request failed")
		}
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", retry.Permanent(fmt.Errorf("gateway rejected request: HTTP %d: %s", resp.StatusCode, truncate(body, 300)))
	}
	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("gateway server error: HTTP %d: %s", resp.StatusCode, truncate(body, 300))
	}

	text := contentFromChoices(body)
	if text == "" {
		return "", fmt.Errorf("no content in gateway response: %s", truncate(body, 300))
	}
	return stripFences(text), nil
}

// contentFromChoices reads the OpenAI-style choices[0].message.content.
func contentFromChoices(body []byte) string {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content)
}

// stripFences removes the markdown fences models like to wrap output in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, fence := range []string{"```text", "```markdown", "```"} {
		s = strings.ReplaceAll(s, fence, "")
	}
	return strings.TrimSpace(s)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

const mockTranscript = `Agent: Good morning, I am calling from the services team about your listing.
Customer: I am busy right now, what is this about?
Agent: We noticed strong buyer interest in your catalog and wanted to discuss an upgrade.
Customer: What is the price for that?
Agent: It starts at a monthly plan, and I can walk you through the breakdown now.
Customer: Send me the details, I will look and call you back.`

const mockTable = `| Variable | Status | Evidence |
|----------|--------|----------|
| Agent Tone & Energy | Excellent | "Good morning, I am calling from" |
| Agent Confidence | Excellent | "I can walk you through" |
| Listening Quality | Moderate | "what is this about" |
| Pricing Objection Response | Needs Improvement | "It starts at a monthly plan" |
| Escalation Handling | Not Present | NA |
| Call-back Request | Excellent | "call you back" |`
