package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"call-quality-go/internal/config"
	"call-quality-go/internal/extractor"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func gatewayClient(url string) *Client {
	return NewClient(config.Config{
		GatewayURL: url,
		APIKey:     "test-key",
		Model:      "test-model",
	}, quietLog())
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestAnalyzeUnwrapsChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		io.WriteString(w, chatResponse("| Var | Excellent | proof |"))
	}))
	defer srv.Close()

	out, err := gatewayClient(srv.URL).Analyze(context.Background(), "Agent: hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "| Var | Excellent | proof |" {
		t.Fatalf("content = %q", out)
	}
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatResponse("```text\n| Var | Moderate | quote |\n```"))
	}))
	defer srv.Close()

	out, err := gatewayClient(srv.URL).Analyze(context.Background(), "Agent: hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "```") {
		t.Fatalf("fences not stripped: %q", out)
	}
	if len(extractor.ParseTable(out)) != 1 {
		t.Fatalf("stripped output should parse: %q", out)
	}
}

func TestClientErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := gatewayClient(srv.URL).Analyze(context.Background(), "text")
	var perm *backoff.PermanentError
	if !errors.As(err, &perm) {
		t.Fatalf("4xx must be permanent, got %v", err)
	}
}

func TestServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := gatewayClient(srv.URL).Analyze(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error for 5xx")
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		t.Fatalf("5xx must stay retryable, got permanent: %v", err)
	}
}

func TestUnconfiguredGatewayIsPermanent(t *testing.T) {
	c := NewClient(config.Config{}, quietLog())
	_, err := c.Analyze(context.Background(), "text")
	var perm *backoff.PermanentError
	if !errors.As(err, &perm) {
		t.Fatalf("missing configuration must not be retried, got %v", err)
	}
}

func TestMockModeIsOfflineAndParsable(t *testing.T) {
	c := NewClient(config.Config{UseMockLLM: true}, quietLog())

	tr, err := c.Transcribe(context.Background(), []byte("audio"), "audio/mpeg")
	if err != nil {
		t.Fatalf("mock transcribe: %v", err)
	}
	if !strings.Contains(tr, "Agent:") || !strings.Contains(tr, "Customer:") {
		t.Errorf("mock transcript must be diarized: %q", tr)
	}

	table, err := c.Analyze(context.Background(), tr)
	if err != nil {
		t.Fatalf("mock analyze: %v", err)
	}
	if len(extractor.ParseTable(table)) == 0 {
		t.Errorf("mock table must parse into records: %q", table)
	}
}

func TestTranscribeSendsAudioPart(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		io.WriteString(w, chatResponse("Agent: hello\nCustomer: hi"))
	}))
	defer srv.Close()

	_, err := gatewayClient(srv.URL).Transcribe(context.Background(), []byte{0x01, 0x02}, "audio/mpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgs, ok := captured["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("unexpected messages payload: %v", captured)
	}
	content, _ := msgs[0].(map[string]any)["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content parts = %d, want text + audio", len(content))
	}
	audioPart, _ := content[1].(map[string]any)
	if audioPart["type"] != "input_audio" {
		t.Errorf("second part type = %v, want input_audio", audioPart["type"])
	}
}
