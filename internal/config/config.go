package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config carries every runtime knob of the pipeline. Values come from
// the environment with defaults matching the production run.
type Config struct {
	// Scoring
	ScoreThreshold    float64 // Excellent% at or above => GOOD
	ExpectedVariables int     // record count for IsComplete

	// Batch
	Concurrency int
	MaxRetries  int

	// Audio validation
	MinAudioBytes   int
	FetchTimeoutSec int

	// Gateway
	GatewayURL string
	APIKey     string
	Model      string
	UseMockLLM bool

	// Input / output
	DatasetPath    string
	OutputDir      string
	TranscriptFile string
	SummaryFile    string
	Timezone       string
}

// FromEnv builds a Config from the environment.
func FromEnv() Config {
	cfg := Config{
		ScoreThreshold:    envFloat("SCORE_THRESHOLD", 40),
		ExpectedVariables: envInt("EXPECTED_VARIABLES", 64),
		Concurrency:       envInt("BATCH_CONCURRENCY", 5),
		MaxRetries:        envInt("MAX_RETRIES", 3),
		MinAudioBytes:     envInt("MIN_AUDIO_BYTES", 10240),
		FetchTimeoutSec:   envInt("FETCH_TIMEOUT_SEC", 60),
		GatewayURL:        os.Getenv("LLM_GATEWAY_URL"),
		APIKey:            os.Getenv("LLM_API_KEY"),
		Model:             envOr("LLM_MODEL", "gemini-2.5-flash"),
		UseMockLLM:        os.Getenv("USE_MOCK_LLM") == "true",
		DatasetPath:       envOr("DATASET_PATH", "calls.xlsx"),
		OutputDir:         envOr("OUTPUT_DIR", "output"),
		Timezone:          envOr("TIMEZONE", "Asia/Kolkata"),
	}
	cfg.TranscriptFile = envOr("TRANSCRIPT_FILE", filepath.Join(cfg.OutputDir, "call_transcripts.txt"))
	cfg.SummaryFile = envOr("SUMMARY_FILE", filepath.Join(cfg.OutputDir, "summary_report.txt"))
	return cfg
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
