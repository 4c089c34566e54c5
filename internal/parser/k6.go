package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"
)

var (
	// checks.........................: 83.33% ✓ 5 ✗ 1
	checksLegacyPattern = regexp.MustCompile(`checks\.*:\s*[\d.]+%\s+✓\s+(\d+)\s+✗\s+(\d+)`)
	// checks_succeeded...: 83.33% 5 out of 6
	checksSucceededPattern = regexp.MustCompile(`checks_succeeded\.*:\s*[\d.]+%\s+(\d+)\s+out of\s+(\d+)`)
	// ✗ response time < 500ms
	failedCheckPattern = regexp.MustCompile(`^\s*✗\s+(.+?)\s*$`)
	// ✗ http_req_duration..............: avg=...
	failedMetricPattern = regexp.MustCompile(`^\s*✗\s+([\w{}:=,\s-]+?)\.{2,}:`)
	// thresholds on metrics 'http_req_duration, http_req_failed' have been crossed
	crossedPattern = regexp.MustCompile(`thresholds on metrics '([^']+)' have been crossed`)
)

// K6Parser reads the end-of-test summary k6 prints to stdout
type K6Parser struct{}

// NewK6Parser creates a new K6Parser
func NewK6Parser() *K6Parser {
	return &K6Parser{}
}

// ParseSummary extracts check counts, failed check names and crossed thresholds.
// Output without a summary yields a zero Summary. Color codes are ignored.
func (p *K6Parser) ParseSummary(output string) Summary {
	output = stripansi.Strip(output)

	var summary Summary
	thresholds := make(map[string]bool)
	addThreshold := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || thresholds[name] {
			return
		}
		thresholds[name] = true
		summary.CrossedThresholds = append(summary.CrossedThresholds, name)
	}

	if m := checksLegacyPattern.FindStringSubmatch(output); len(m) == 3 {
		summary.ChecksPassed, _ = strconv.Atoi(m[1])
		summary.ChecksFailed, _ = strconv.Atoi(m[2])
	} else if m := checksSucceededPattern.FindStringSubmatch(output); len(m) == 3 {
		succeeded, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		summary.ChecksPassed = succeeded
		if total > succeeded {
			summary.ChecksFailed = total - succeeded
		}
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if m := failedMetricPattern.FindStringSubmatch(line); len(m) == 2 {
			addThreshold(m[1])
			continue
		}
		if m := failedCheckPattern.FindStringSubmatch(line); len(m) == 2 {
			summary.FailedChecks = append(summary.FailedChecks, m[1])
		}
	}

	for _, m := range crossedPattern.FindAllStringSubmatch(output, -1) {
		for _, name := range strings.Split(m[1], ",") {
			addThreshold(name)
		}
	}

	return summary
}
