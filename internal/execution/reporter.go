package execution

import (
	"time"

	"k6x/internal/domain"
)

// Reporter receives per-leaf state transitions of a run, one at a time and in order
type Reporter interface {
	Started(leaf *domain.TestNode)
	Passed(leaf *domain.TestNode, duration time.Duration)
	Failed(leaf *domain.TestNode, message string, duration *time.Duration)
}

// MultiReporter forwards every transition to each reporter in turn
type MultiReporter []Reporter

func (m MultiReporter) Started(leaf *domain.TestNode) {
	for _, r := range m {
		r.Started(leaf)
	}
}

func (m MultiReporter) Passed(leaf *domain.TestNode, duration time.Duration) {
	for _, r := range m {
		r.Passed(leaf, duration)
	}
}

func (m MultiReporter) Failed(leaf *domain.TestNode, message string, duration *time.Duration) {
	for _, r := range m {
		r.Failed(leaf, message, duration)
	}
}
