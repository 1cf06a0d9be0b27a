package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"call-quality-go/internal/audio"
	"call-quality-go/internal/config"
	"call-quality-go/internal/dataset"
	"call-quality-go/internal/llm"
	"call-quality-go/internal/logger"
	"call-quality-go/internal/pipeline"
	"call-quality-go/internal/report"
	"call-quality-go/internal/retry"
	"call-quality-go/internal/types"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "call-quality-go").Info("starting service")

	cfg := config.FromEnv()

	transcripts, err := report.Open(cfg.TranscriptFile)
	if err != nil {
		log.WithError(err).Fatal("failed to open transcript log")
	}
	summaries, err := report.Open(cfg.SummaryFile)
	if err != nil {
		log.WithError(err).Fatal("failed to open summary report")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.WithField("timezone", cfg.Timezone).Warn("unknown timezone, using UTC")
		loc = time.UTC
	}

	// One shared gateway client for all workers.
	client := llm.NewClient(cfg, log.WithComponent("llm"))
	proc := &pipeline.Processor{
		Fetcher:     audio.NewFetcher(cfg.MinAudioBytes, log.WithComponent("audio")),
		Transcriber: client,
		Analyzer:    client,
		Invoker:     retry.New(cfg.MaxRetries, log.WithComponent("retry")),
		Transcripts: transcripts,
		Summaries:   summaries,
		Threshold:   cfg.ScoreThreshold,
		Expected:    cfg.ExpectedVariables,
		Location:    loc,
		Log:         log.WithComponent("pipeline"),
	}
	runner := &pipeline.Runner{
		Proc:        proc,
		Concurrency: cfg.Concurrency,
		Log:         log.WithComponent("batch"),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// process a single recording end to end
	mux.HandleFunc("/process", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "process")
		audioURL := r.URL.Query().Get("audio_url")
		if audioURL == "" {
			reqLog.Warn("missing audio_url")
			http.Error(w, "missing audio_url", http.StatusBadRequest)
			return
		}
		idx := 1
		if v := r.URL.Query().Get("index"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				idx = n
			}
		}
		reqLog = reqLog.WithField("audio_url", audioURL)
		reqLog.Info("process request received")

		start := time.Now()
		results, err := runner.RunAll(r.Context(), []types.CallJob{{Index: idx, AudioURL: audioURL}})
		if err != nil {
			reqLog.WithError(err).Fatal("report sink failed, halting")
		}
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("processing finished")
		writeJSON(w, reqLog, results[0])
	})

	// run the whole spreadsheet dataset
	mux.HandleFunc("/batch", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "batch")
		reqLog.WithField("dataset_path", cfg.DatasetPath).Info("batch request received")

		jobs, err := dataset.Load(cfg.DatasetPath)
		if err != nil {
			reqLog.WithError(err).Error("dataset load error")
			http.Error(w, "dataset load error", http.StatusInternalServerError)
			return
		}
		results, err := runner.RunAll(r.Context(), jobs)
		if err != nil {
			reqLog.WithError(err).Fatal("report sink failed, halting")
		}
		writeJSON(w, reqLog, results)
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // batches block until every call completes
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, reqLog *logrus.Entry, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		reqLog.WithField("error", err.Error()).Error("failed to write response")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
