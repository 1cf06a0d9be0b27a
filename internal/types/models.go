package types

// CallJob is one audio recording queued for end-to-end analysis.
// Index is the 1-based position from the input source and is carried
// through to the result so callers can restore input order.
type CallJob struct {
	Index    int    `json:"index"`
	AudioURL string `json:"audio_url"`
}

// AudioPayload holds fetched audio bytes. The MIME type is always the
// canonical audio type; servers report unreliable content types.
type AudioPayload struct {
	Bytes    []byte
	MimeType string
}

// Verdict is the quality gate's judgement of a transcript.
type Verdict string

const (
	VerdictOK            Verdict = "OK"
	VerdictEmpty         Verdict = "EMPTY_TRANSCRIPT"
	VerdictHallucinated  Verdict = "HALLUCINATED_REPEAT"
	VerdictNoDiarization Verdict = "NO_DIARIZATION"
)

// Canonical status values emitted by the analysis step. The parser does
// not enforce these; anything else lands in the Unknown bucket at
// scoring time.
const (
	StatusExcellent    = "Excellent"
	StatusModerate     = "Moderate"
	StatusNeedsImprove = "Needs Improvement"
	StatusNotPresent   = "Not Present"
)

// VariableRecord is one row of the extracted analysis table. Duplicate
// variable names are allowed; consumers aggregate by occurrence.
type VariableRecord struct {
	Variable string `json:"variable"`
	Status   string `json:"status"`
	Evidence string `json:"evidence"`
}

// Classification of a scored call.
const (
	CallGood  = "GOOD"
	CallBad   = "BAD"
	CallError = "ERROR"
)

// Summary is the pure reduction of a record sequence. It is recomputed
// from the records, never mutated incrementally.
type Summary struct {
	Counts       map[string]int `json:"counts"`
	Total        int            `json:"total_possible"`
	NotPresent   int            `json:"not_present"`
	Unknown      int            `json:"unknown"`
	Considered   int            `json:"considered"`
	ExcellentPct float64        `json:"excellent_percentage"`
	CallType     string         `json:"call_type"`
}

// Stage identifies where in the pipeline an item failed.
type Stage string

const (
	StageFetch      Stage = "FETCH"
	StageTranscribe Stage = "TRANSCRIBE"
	StageQuality    Stage = "QUALITY"
	StageExtract    Stage = "EXTRACT"
	StageCrash      Stage = "CRASH"
)

// CallResult is the terminal record for one job. Written exactly once
// to each report destination, then never updated.
type CallResult struct {
	Index        int              `json:"index"`
	AudioURL     string           `json:"url"`
	Timestamp    string           `json:"timestamp"`
	Transcript   string           `json:"transcript"`
	Verdict      Verdict          `json:"verdict,omitempty"`
	Records      []VariableRecord `json:"variables"`
	Summary      Summary          `json:"summary"`
	FailureStage Stage            `json:"failure_stage,omitempty"`
	Error        string           `json:"error,omitempty"`
	IsComplete   bool             `json:"is_complete"`
}

// Failed reports whether the item terminated in a failure stage.
func (r *CallResult) Failed() bool { return r.FailureStage != "" }
