package scoring

import (
	"testing"

	"call-quality-go/internal/types"
)

func recs(statuses ...string) []types.VariableRecord {
	out := make([]types.VariableRecord, len(statuses))
	for i, s := range statuses {
		out[i] = types.VariableRecord{Variable: "v", Status: s, Evidence: "NA"}
	}
	return out
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := Summarize(nil, DefaultThreshold)
	if s.CallType != types.CallError {
		t.Errorf("call type = %s, want ERROR", s.CallType)
	}
	if s.ExcellentPct != 0 || s.Total != 0 || s.Considered != 0 {
		t.Errorf("empty input must zero everything: %+v", s)
	}
}

func TestSummarizeCountsAndPercentage(t *testing.T) {
	records := recs(
		types.StatusExcellent,
		types.StatusExcellent,
		types.StatusModerate,
		types.StatusNotPresent,
	)

	s := Summarize(records, 66)
	if s.Total != 4 {
		t.Errorf("total = %d, want 4", s.Total)
	}
	if s.Considered != 3 {
		t.Errorf("considered = %d, want 3", s.Considered)
	}
	if s.ExcellentPct != 66.67 {
		t.Errorf("excellent pct = %v, want 66.67", s.ExcellentPct)
	}
	if s.CallType != types.CallGood {
		t.Errorf("call type at 66%% threshold = %s, want GOOD", s.CallType)
	}

	if strict := Summarize(records, 70); strict.CallType != types.CallBad {
		t.Errorf("call type at 70%% threshold = %s, want BAD", strict.CallType)
	}
}

func TestSummarizeAllNotPresent(t *testing.T) {
	s := Summarize(recs(types.StatusNotPresent, types.StatusNotPresent), DefaultThreshold)
	if s.Considered != 0 {
		t.Errorf("considered = %d, want 0", s.Considered)
	}
	if s.ExcellentPct != 0 {
		t.Errorf("pct with zero considered = %v, want 0", s.ExcellentPct)
	}
	if s.CallType != types.CallBad {
		// 0% < any positive threshold; not an ERROR since records exist
		t.Errorf("call type = %s, want BAD", s.CallType)
	}
}

func TestSummarizeUnknownStatusBucket(t *testing.T) {
	records := recs(
		types.StatusExcellent,
		"Superb", // not canonical
		types.StatusModerate,
		types.StatusNotPresent,
	)
	s := Summarize(records, 40)
	if s.Unknown != 1 {
		t.Fatalf("unknown = %d, want 1", s.Unknown)
	}
	if s.Considered != 2 {
		t.Errorf("considered = %d, want 2 (unknown excluded from denominator)", s.Considered)
	}
	if s.ExcellentPct != 50 {
		t.Errorf("pct = %v, want 50", s.ExcellentPct)
	}
	if s.Counts["Superb"] != 1 {
		t.Errorf("literal status must still be counted: %+v", s.Counts)
	}
}

func TestSummarizeIsPure(t *testing.T) {
	records := recs(types.StatusExcellent, types.StatusModerate)
	first := Summarize(records, DefaultThreshold)
	second := Summarize(records, DefaultThreshold)
	if first.ExcellentPct != second.ExcellentPct || first.CallType != second.CallType {
		t.Errorf("re-derived summary differs: %+v vs %+v", first, second)
	}
}

func TestSummarizeRounding(t *testing.T) {
	// 1 Excellent of 3 considered = 33.333... -> 33.33
	s := Summarize(recs(types.StatusExcellent, types.StatusModerate, types.StatusNeedsImprove), 40)
	if s.ExcellentPct != 33.33 {
		t.Errorf("pct = %v, want 33.33", s.ExcellentPct)
	}
	if s.CallType != types.CallBad {
		t.Errorf("call type = %s, want BAD at default threshold", s.CallType)
	}
}
