package extractor

import (
	"strings"

	"call-quality-go/internal/types"
)

const evidenceFallback = "NA"

// ParseTable pulls (variable, status, evidence) rows out of the loosely
// pipe-delimited text the analysis step returns. The model only softly
// complies with the requested format, so this is a tolerant line
// filter: malformed rows are dropped, never fatal, and arbitrary input
// yields at worst an empty slice. Status strings pass through verbatim;
// the scorer handles anything non-canonical.
func ParseTable(raw string) []types.VariableRecord {
	var records []types.VariableRecord
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		cells := splitRow(line)
		if len(cells) < 3 {
			continue
		}
		if strings.EqualFold(cells[0], "variable") || strings.Contains(cells[0], "---") {
			continue
		}
		rec := types.VariableRecord{
			Variable: cells[0],
			Status:   cells[1],
			Evidence: cells[2],
		}
		if rec.Evidence == "" {
			rec.Evidence = evidenceFallback
		}
		records = append(records, rec)
	}
	return records
}

// splitRow strips the outer pipes, splits on the delimiter and trims
// each cell. Inner empty cells survive so a blank evidence column is
// still a column.
func splitRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}
