package report

import (
	"fmt"
	"strings"

	"call-quality-go/internal/types"
)

// TranscriptBlock renders one call's transcript log entry.
func TranscriptBlock(r *types.CallResult) string {
	var b strings.Builder
	banner := strings.Repeat("#", 40)
	fmt.Fprintf(&b, "%s\n", banner)
	fmt.Fprintf(&b, "CALL INDEX: %d\n", r.Index)
	fmt.Fprintf(&b, "%s\n", banner)
	fmt.Fprintf(&b, "Timestamp : %s\n", r.Timestamp)
	fmt.Fprintf(&b, "Audio URL : %s\n", r.AudioURL)
	fmt.Fprintf(&b, "Result    : %s (%v%%)\n", r.Summary.CallType, r.Summary.ExcellentPct)
	if r.Error != "" {
		fmt.Fprintf(&b, "Error     : %s\n", r.Error)
	}
	b.WriteString("\nTRANSCRIPT\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	b.WriteString(r.Transcript)
	b.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")
	return b.String()
}

// SummaryBlock renders one call's analysis report: header, the variable
// table, then the scoring metrics.
func SummaryBlock(r *types.CallResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "CALL %d ANALYSIS REPORT\n", r.Index)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Timestamp : %s\n", r.Timestamp)
	fmt.Fprintf(&b, "URL       : %s\n", r.AudioURL)
	fmt.Fprintf(&b, "Result    : %s (%v%%)\n", r.Summary.CallType, r.Summary.ExcellentPct)
	if r.Error != "" {
		fmt.Fprintf(&b, "Error     : %s\n", r.Error)
	}
	b.WriteString("\n")

	divider := fmt.Sprintf("|%s|%s|%s|\n",
		strings.Repeat("-", 42), strings.Repeat("-", 22), strings.Repeat("-", 50))
	b.WriteString(divider)
	fmt.Fprintf(&b, "| %-40s | %-20s | %s |\n", "Variable", "Status", "Evidence")
	b.WriteString(divider)
	for _, v := range r.Records {
		evidence := strings.ReplaceAll(v.Evidence, "\n", " ")
		fmt.Fprintf(&b, "| %-40s | %-20s | %s\n", v.Variable, v.Status, evidence)
	}
	b.WriteString(divider)

	s := r.Summary
	b.WriteString("\nSCORING METRICS\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "Total Variables : %d\n", s.Total)
	fmt.Fprintf(&b, "Not Present     : %d\n", s.NotPresent)
	if s.Unknown > 0 {
		fmt.Fprintf(&b, "Unknown Status  : %d\n", s.Unknown)
	}
	fmt.Fprintf(&b, "Evaluated       : %d\n", s.Considered)
	fmt.Fprintf(&b, "Excellent       : %d\n", s.Counts[types.StatusExcellent])
	fmt.Fprintf(&b, "Moderate        : %d\n", s.Counts[types.StatusModerate])
	fmt.Fprintf(&b, "Needs Improve   : %d\n", s.Counts[types.StatusNeedsImprove])
	fmt.Fprintf(&b, "Final Score     : %v%%\n", s.ExcellentPct)
	fmt.Fprintf(&b, "Classification  : %s\n\n", s.CallType)
	return b.String()
}
