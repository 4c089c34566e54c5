package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"k6x/internal/domain"
	"k6x/internal/parser"
	"k6x/internal/tree"
)

// DefaultFailureMessage is reported when a failed result carries no message
const DefaultFailureMessage = "Test failed"

// Progress is told which leaf starts and is updated after each leaf reaches a terminal state
type Progress interface {
	Start(leaf *domain.TestNode)
	Update(passed, failed int)
	Finish()
}

// ExecuteOptions tune one run
type ExecuteOptions struct {
	// FailFast cancels the rest of the run after the first failure
	FailFast bool
}

// Coordinator expands run requests against the tree and runs leaves one by one
type Coordinator struct {
	tree     *tree.Tree
	executor Executor
	parser   parser.Parser
	progress Progress
	log      logrus.FieldLogger
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(t *tree.Tree, executor Executor, summaryParser parser.Parser, log logrus.FieldLogger) *Coordinator {
	return &Coordinator{
		tree:     t,
		executor: executor,
		parser:   summaryParser,
		log:      log.WithField("component", "coordinator"),
	}
}

// SetProgress sets the progress hook for subsequent runs
func (c *Coordinator) SetProgress(progress Progress) {
	c.progress = progress
}

// Leaves resolves a request against the tree as it is now
func (c *Coordinator) Leaves(req domain.RunRequest) []*domain.TestNode {
	return c.tree.ResolveLeaves(req.Include)
}

// Execute runs every leaf of req sequentially. Cancellation is checked before
// each leaf: once ctx is done no further leaf is started, while the leaf in
// flight has its engine process killed. A failing or panicking leaf never
// aborts its siblings. The returned records cover every resolved leaf;
// leaves that never started stay queued.
func (c *Coordinator) Execute(ctx context.Context, req domain.RunRequest, reporter Reporter, opts ExecuteOptions) []domain.RunRecord {
	leaves := c.Leaves(req)
	records := make([]domain.RunRecord, len(leaves))
	for i, leaf := range leaves {
		records[i] = domain.RunRecord{
			ID:       leaf.ID,
			Name:     leaf.Label,
			FilePath: leaf.Path,
			State:    domain.StateQueued,
		}
	}

	if opts.FailFast {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		reporter = MultiReporter{reporter, failFastReporter{cancel: cancel}}
	}

	c.log.WithFields(logrus.Fields{
		"tests": len(leaves),
		"all":   req.All(),
	}).Debug("Starting run")

	var passed, failed int
	for i, leaf := range leaves {
		if ctx.Err() != nil {
			c.log.WithField("remaining", len(leaves)-i).Info("Run cancelled, not starting remaining tests")
			break
		}

		records[i].State = domain.StateRunning
		reporter.Started(leaf)
		if c.progress != nil {
			c.progress.Start(leaf)
		}

		result, err := c.runLeaf(ctx, leaf)
		c.finish(&records[i], leaf, result, err, reporter)
		if !records[i].State.Terminal() {
			continue
		}

		if records[i].State == domain.StatePassed {
			passed++
		} else {
			failed++
		}
		if c.progress != nil {
			c.progress.Update(passed, failed)
		}
	}

	if c.progress != nil {
		c.progress.Finish()
	}
	return records
}

// runLeaf turns a panic inside the executor into an error for this leaf only
func (c *Coordinator) runLeaf(ctx context.Context, leaf *domain.TestNode) (result domain.RunResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while running %s: %v", leaf.ID, r)
		}
	}()
	return c.executor.Run(ctx, leaf)
}

func (c *Coordinator) finish(rec *domain.RunRecord, leaf *domain.TestNode, result domain.RunResult, err error, reporter Reporter) {
	if err != nil {
		c.log.WithError(err).WithField("test", leaf.ID).Warn("Test could not be run")
		rec.State = domain.StateFailed
		rec.Message = err.Error()
		reporter.Failed(leaf, rec.Message, nil)
		return
	}

	rec.Output = result.Output
	rec.Cancelled = result.Cancelled
	if result.Duration != nil {
		rec.DurationSeconds = result.Duration.Seconds()
	}
	if c.parser != nil && result.Output != "" {
		summary := c.parser.ParseSummary(result.Output)
		rec.ChecksPassed = summary.ChecksPassed
		rec.ChecksFailed = summary.ChecksFailed
		rec.FailedChecks = summary.FailedChecks
		rec.CrossedThresholds = summary.CrossedThresholds

		if result.Success && summary.HasFailures() {
			c.log.WithFields(logrus.Fields{
				"test":          leaf.ID,
				"checks_failed": summary.ChecksFailed,
			}).Warn("Test passed with failed checks")
		}
	}

	if result.Success {
		rec.State = domain.StatePassed
		var d time.Duration
		if result.Duration != nil {
			d = *result.Duration
		}
		reporter.Passed(leaf, d)
		return
	}

	rec.State = domain.StateFailed
	rec.Message = result.Error
	if rec.Message == "" {
		rec.Message = DefaultFailureMessage
	}
	reporter.Failed(leaf, rec.Message, result.Duration)
}

// failFastReporter cancels the run on the first failure
type failFastReporter struct {
	cancel context.CancelFunc
}

func (failFastReporter) Started(*domain.TestNode)               {}
func (failFastReporter) Passed(*domain.TestNode, time.Duration) {}

func (f failFastReporter) Failed(*domain.TestNode, string, *time.Duration) {
	f.cancel()
}
