package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"call-quality-go/internal/extractor"
	"call-quality-go/internal/report"
	"call-quality-go/internal/retry"
	"call-quality-go/internal/scoring"
	"call-quality-go/internal/transcript"
	"call-quality-go/internal/types"
)

// Fetcher retrieves and validates a remote recording.
type Fetcher interface {
	Fetch(ctx context.Context, audioURL string) (*types.AudioPayload, error)
}

// Transcriber turns audio bytes into diarized text. May fail
// transiently; always invoked through the retry layer.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Analyzer evaluates a transcript and returns the raw variable table.
type Analyzer interface {
	Analyze(ctx context.Context, transcriptText string) (string, error)
}

// Processor drives one call through
// fetch -> validate -> transcribe -> quality gate -> extract -> score -> persist.
// Failures at any stage terminate the item, never the batch; the stage
// and reason are captured on the result.
type Processor struct {
	Fetcher     Fetcher
	Transcriber Transcriber
	Analyzer    Analyzer
	Invoker     *retry.Invoker

	Transcripts *report.Sink
	Summaries   *report.Sink

	Threshold float64
	Expected  int
	Location  *time.Location

	Log *logrus.Entry
}

// Process runs the full state machine for one job. The returned error
// is non-nil only when persisting the result failed; everything else is
// recorded on the result itself.
func (p *Processor) Process(ctx context.Context, job types.CallJob) (types.CallResult, error) {
	log := p.Log.WithField("call_index", job.Index)
	res := types.CallResult{
		Index:     job.Index,
		AudioURL:  job.AudioURL,
		Timestamp: p.timestamp(),
		Summary:   scoring.ZeroSummary(),
	}

	// Fetch + validate. Validation failures are content-level, not
	// transient, so there is no retry here.
	payload, err := p.Fetcher.Fetch(ctx, job.AudioURL)
	if err != nil {
		return p.fail(&res, types.StageFetch, fmt.Sprintf("AUDIO_VALIDATION_FAILED: %v", err), log)
	}

	// Transcribe through the retry layer. The payload is dropped right
	// after hand-off; later stages never re-fetch.
	text, err := p.Invoker.Do(ctx, "transcribe", func() (string, error) {
		return p.Transcriber.Transcribe(ctx, payload.Bytes, payload.MimeType)
	})
	payload = nil
	if err != nil {
		return p.fail(&res, types.StageTranscribe, fmt.Sprintf("TRANSCRIPTION_ERROR: %v", err), log)
	}
	res.Transcript = text

	// Quality gate. Only an empty transcript halts the item: there is
	// nothing to extract from. Other verdicts are recorded and the item
	// continues.
	verdict, detail := transcript.Assess(text)
	res.Verdict = verdict
	if verdict == types.VerdictEmpty {
		return p.fail(&res, types.StageQuality, fmt.Sprintf("BAD_TRANSCRIPT: %s (%s)", verdict, detail), log)
	}
	if verdict != types.VerdictOK {
		res.Error = fmt.Sprintf("BAD_TRANSCRIPT: %s (%s)", verdict, detail)
		log.WithField("verdict", verdict).Warn("transcript quality warning, continuing to extraction")
	}

	// Extract the variable table, again through the retry layer.
	raw, err := p.Invoker.Do(ctx, "analyze", func() (string, error) {
		return p.Analyzer.Analyze(ctx, text)
	})
	if err != nil {
		return p.fail(&res, types.StageExtract, fmt.Sprintf("VARIABLE_EXTRACTION_FAILED: %v", err), log)
	}
	res.Records = extractor.ParseTable(raw)

	// Scoring is pure and cannot fail.
	res.Summary = scoring.Summarize(res.Records, p.Threshold)
	if res.Summary.Unknown > 0 {
		log.WithField("unknown_statuses", res.Summary.Unknown).Warn("records with non-canonical status excluded from scoring")
	}

	res.IsComplete = len(res.Records) >= p.Expected
	if !res.IsComplete {
		log.WithFields(logrus.Fields{
			"extracted": len(res.Records),
			"expected":  p.Expected,
		}).Warn("fewer variables extracted than expected")
	}

	return res, p.persist(&res)
}

// fail finalizes a terminal failure: zero/ERROR summary, the failed
// stage and reason, and a persisted record so the item is never simply
// missing from the reports.
func (p *Processor) fail(res *types.CallResult, stage types.Stage, reason string, log *logrus.Entry) (types.CallResult, error) {
	log.WithField("stage", string(stage)).Warn(reason)
	res.FailureStage = stage
	res.Error = reason
	res.Summary = scoring.ZeroSummary()
	res.Records = nil
	res.IsComplete = false
	if res.Transcript == "" {
		res.Transcript = "[FAILED] " + reason
	}
	return *res, p.persist(res)
}

// persist appends the transcript and summary blocks. A write failure
// here is fatal and propagates: silent data loss is unacceptable.
func (p *Processor) persist(res *types.CallResult) error {
	if err := p.Transcripts.Append(report.TranscriptBlock(res)); err != nil {
		return err
	}
	return p.Summaries.Append(report.SummaryBlock(res))
}

func (p *Processor) timestamp() string {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format("2006-01-02 15:04:05 MST")
}
