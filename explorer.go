package qsim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
)

// Branch is one candidate gate sequence to try against a base register.
type Branch struct {
	Name    string
	Circuit *Circuit
}

// BranchResult is what a branch produced on its own clone of the base.
type BranchResult struct {
	Name          string
	Register      *Register
	Probabilities []float64
	Entropy       float64
	Duration      time.Duration
	Err           error
}

/*
Explorer evaluates branches in parallel. Every branch runs on its own clone
of the base register, so branches never see each other's writes and the base
is only read. The base must not be mutated while Explore runs.

Cancellation is checked before a branch starts; a branch that has started
runs to completion.
*/
type Explorer struct {
	workers int
	metrics *Metrics
}

func NewExplorer(config *Config) *Explorer {
	if config == nil {
		config = NewConfig()
	}
	return &Explorer{
		workers: max(config.Workers, 1),
		metrics: NewMetrics(),
	}
}

func (e *Explorer) Metrics() *Metrics {
	return e.metrics
}

/*
Explore runs every branch and returns results in branch order. A branch that
fails records its error in its result without stopping the others. The
returned error is non-nil only when ctx ended before every branch started;
branches that never ran carry ctx's error.
*/
func (e *Explorer) Explore(ctx context.Context, base *Register, branches []Branch) ([]BranchResult, error) {
	errnie.Info("Explore - branches %d, workers %d", len(branches), e.workers)

	results := make([]BranchResult, len(branches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var skipped atomic.Bool

	for i, branch := range branches {
		results[i].Name = branch.Name

		if err := gctx.Err(); err != nil {
			results[i].Err = err
			skipped.Store(true)
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				skipped.Store(true)
				return nil
			}
			results[i] = e.run(base, branch)
			return nil
		})
	}

	_ = g.Wait()

	if skipped.Load() {
		return results, ctx.Err()
	}
	return results, nil
}

func (e *Explorer) run(base *Register, branch Branch) BranchResult {
	start := time.Now()
	result := BranchResult{Name: branch.Name}

	reg := base.Clone()
	if branch.Circuit == nil {
		result.Err = fmt.Errorf("branch %s has no circuit: %w", branch.Name, ErrInvalidParameter)
	} else if err := branch.Circuit.Run(reg); err != nil {
		result.Err = err
	} else {
		result.Register = reg
		result.Probabilities = reg.Probabilities()
		result.Entropy = reg.Entropy()
	}

	result.Duration = time.Since(start)
	e.metrics.recordBranch(result.Duration, result.Err == nil)

	return result
}
