package parser

// Parser extracts a summary from engine output
type Parser interface {
	ParseSummary(output string) Summary
}

// Summary is what a finished k6 run reported about checks and thresholds
type Summary struct {
	ChecksPassed      int
	ChecksFailed      int
	FailedChecks      []string
	CrossedThresholds []string
}

// HasFailures reports whether any check failed or threshold was crossed
func (s Summary) HasFailures() bool {
	return s.ChecksFailed > 0 || len(s.FailedChecks) > 0 || len(s.CrossedThresholds) > 0
}
