package models

// ImportOutcome distinguishes a useful import from one that found nothing.
type ImportOutcome string

const (
	ImportOK    ImportOutcome = "imported"
	ImportEmpty ImportOutcome = "empty"
)

// RowError reports a rejected spreadsheet row. Row is the 1-based sheet row.
type RowError struct {
	Row    int    `json:"row" toon:"row"`
	Reason string `json:"reason" toon:"reason"`
}

// ImportResult is the validated content of a spreadsheet.
type ImportResult struct {
	Courses []Course      `json:"courses" toon:"courses"`
	Skipped []RowError    `json:"skipped" toon:"skipped"`
	Outcome ImportOutcome `json:"outcome" toon:"outcome"`
}

// SkippedCount returns the number of rejected rows.
func (r *ImportResult) SkippedCount() int {
	return len(r.Skipped)
}
