package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"call-quality-go/internal/types"
)

// Load reads the first sheet of an xlsx workbook and returns the
// ordered list of call jobs. The recording-URL column is located by
// header heuristics; rows whose cell is not an http(s) URL are skipped
// quietly. Indexes are 1-based over the surviving rows.
func Load(path string) ([]types.CallJob, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	urlIdx := findURLColumn(rows[0])
	if urlIdx == -1 {
		return nil, fmt.Errorf("no recording URL column found in header %v", rows[0])
	}

	var jobs []types.CallJob
	for _, r := range rows[1:] {
		if urlIdx >= len(r) {
			continue
		}
		u := strings.TrimSpace(r[urlIdx])
		lower := strings.ToLower(u)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			continue
		}
		jobs = append(jobs, types.CallJob{Index: len(jobs) + 1, AudioURL: u})
	}
	return jobs, nil
}

func findURLColumn(header []string) int {
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "recording"),
			strings.Contains(l, "audio"),
			strings.Contains(l, "url"),
			strings.Contains(l, "link"):
			return i
		}
	}
	return -1
}
