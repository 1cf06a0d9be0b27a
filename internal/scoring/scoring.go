package scoring

import (
	"math"

	"call-quality-go/internal/types"
)

// DefaultThreshold is the Excellent-share (percent) at or above which a
// call classifies as GOOD.
const DefaultThreshold = 40.0

// Summarize reduces a record sequence into counts and a classification.
// It is pure: the summary can be re-derived from the stored records at
// any later time. Statuses outside the canonical four land in a
// distinct Unknown bucket and are excluded from the percentage math on
// both sides.
func Summarize(records []types.VariableRecord, threshold float64) types.Summary {
	if len(records) == 0 {
		return ZeroSummary()
	}

	counts := map[string]int{}
	for _, r := range records {
		counts[r.Status]++
	}

	unknown := 0
	for status, n := range counts {
		switch status {
		case types.StatusExcellent, types.StatusModerate, types.StatusNeedsImprove, types.StatusNotPresent:
		default:
			unknown += n
		}
	}

	total := len(records)
	notPresent := counts[types.StatusNotPresent]
	considered := total - notPresent - unknown

	pct := 0.0
	if considered > 0 {
		pct = round2(float64(counts[types.StatusExcellent]) / float64(considered) * 100)
	}

	callType := types.CallBad
	if pct >= threshold {
		callType = types.CallGood
	}

	return types.Summary{
		Counts:       counts,
		Total:        total,
		NotPresent:   notPresent,
		Unknown:      unknown,
		Considered:   considered,
		ExcellentPct: pct,
		CallType:     callType,
	}
}

// ZeroSummary is the summary attached to items that never produced
// records: everything zero, classification ERROR.
func ZeroSummary() types.Summary {
	return types.Summary{Counts: map[string]int{}, CallType: types.CallError}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
