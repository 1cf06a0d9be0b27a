package transcript

import (
	"fmt"
	"strings"

	"call-quality-go/internal/types"
)

const (
	minLength       = 20
	minTokens       = 20
	repeatThreshold = 0.5
)

// Assess runs the heuristic quality gate over a transcript and returns
// the verdict plus whether the text is acceptable downstream. It is a
// filter, not a proof: naturally repetitive speech can trip it.
func Assess(text string) (types.Verdict, string) {
	if len(strings.TrimSpace(text)) < minLength {
		return types.VerdictEmpty, "transcript shorter than 20 characters"
	}

	words := strings.Fields(text)
	if len(words) > minTokens {
		counts := make(map[string]int, len(words))
		topWord, topCount := "", 0
		for _, w := range words {
			counts[w]++
			if counts[w] > topCount {
				topWord, topCount = w, counts[w]
			}
		}
		if float64(topCount)/float64(len(words)) > repeatThreshold {
			return types.VerdictHallucinated,
				fmt.Sprintf("'%s' repeated %d/%d times", topWord, topCount, len(words))
		}
	}

	lower := strings.ToLower(text)
	if !strings.Contains(lower, "agent:") && !strings.Contains(lower, "customer:") {
		return types.VerdictNoDiarization, "no Agent:/Customer: labels found"
	}

	return types.VerdictOK, "OK"
}
