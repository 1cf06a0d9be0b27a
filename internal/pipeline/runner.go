package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"call-quality-go/internal/scoring"
	"call-quality-go/internal/types"
)

// Runner executes many jobs under a fixed concurrency ceiling. All jobs
// are submitted up front; results arrive in completion order, each
// carrying its original index. A panic inside one item becomes a CRASH
// result instead of taking the batch down.
type Runner struct {
	Proc        *Processor
	Concurrency int
	Log         *logrus.Entry
}

// RunAll processes every job and returns the results in completion
// order. The only error it returns is a report-sink write failure,
// which makes the whole run unreliable.
func (r *Runner) RunAll(ctx context.Context, jobs []types.CallJob) ([]types.CallResult, error) {
	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	runID := uuid.New().String()
	log := r.Log.WithField("run_id", runID)
	log.WithFields(logrus.Fields{
		"total_calls": len(jobs),
		"concurrency": concurrency,
	}).Info("batch started")

	var (
		mu       sync.Mutex
		results  []types.CallResult
		firstErr error
	)
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, job := range jobs {
		wg.Add(1)
		go func(job types.CallJob) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := r.runOne(ctx, job)
			mu.Lock()
			results = append(results, res)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			log.WithFields(logrus.Fields{
				"call_index": res.Index,
				"call_type":  res.Summary.CallType,
				"complete":   res.IsComplete,
			}).Info("call finished")
		}(job)
	}
	wg.Wait()

	r.logTally(log, results)
	if firstErr != nil {
		return results, fmt.Errorf("batch persistence failed: %w", firstErr)
	}
	return results, nil
}

// runOne wraps a single item so that an uncaught fault surfaces as a
// terminal CRASH result. The crash record is persisted like any other.
func (r *Runner) runOne(ctx context.Context, job types.CallJob) (res types.CallResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reason := fmt.Sprintf("CRASH: %v", rec)
			r.Log.WithField("call_index", job.Index).Error(reason)
			res = types.CallResult{
				Index:        job.Index,
				AudioURL:     job.AudioURL,
				Timestamp:    r.Proc.timestamp(),
				Transcript:   "[CRASHED] " + reason,
				Summary:      scoring.ZeroSummary(),
				FailureStage: types.StageCrash,
				Error:        reason,
			}
			if perr := r.Proc.persist(&res); perr != nil && err == nil {
				err = perr
			}
		}
	}()
	return r.Proc.Process(ctx, job)
}

func (r *Runner) logTally(log *logrus.Entry, results []types.CallResult) {
	var good, bad, errs, complete int
	var scoreSum float64
	for i := range results {
		switch results[i].Summary.CallType {
		case types.CallGood:
			good++
		case types.CallBad:
			bad++
		default:
			errs++
		}
		if results[i].IsComplete {
			complete++
		}
		scoreSum += results[i].Summary.ExcellentPct
	}
	avg := 0.0
	if len(results) > 0 {
		avg = scoreSum / float64(len(results))
	}
	log.WithFields(logrus.Fields{
		"total":     len(results),
		"good":      good,
		"bad":       bad,
		"errors":    errs,
		"complete":  complete,
		"avg_score": fmt.Sprintf("%.2f", avg),
	}).Info("batch complete")
}
