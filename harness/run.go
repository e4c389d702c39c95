package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

type Status string

const (
	Passed  Status = "passed"
	Failed  Status = "failed"
	Skipped Status = "skipped"
)

// Result is the outcome of one test. Name is the full path of the test,
// group names included.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Run executes every case in registration order, strictly one at a time.
func (s *Suite) Run(ctx context.Context) *Report {
	report := &Report{Started: time.Now()}

	for _, c := range s.roots {
		// A blocked root does not stop the next one.
		s.run(ctx, c, report)
	}

	report.Finished = time.Now()
	report.Print(s.out)

	return report
}

// run executes c and reports whether it blocks the rest of its group.
func (s *Suite) run(ctx context.Context, c Case, report *Report) bool {
	switch c := c.(type) {
	case *Test:
		return s.runTest(ctx, c, report)
	case *Group:
		return s.runGroup(ctx, c, report)
	}

	return false
}

func (s *Suite) runGroup(ctx context.Context, g *Group, report *Report) bool {
	s.log.WithField("group", g.path).Debug("Running group")

	blocked := false
	for _, child := range g.children {
		if blocked {
			s.skip(child, fmt.Sprintf("blocked by %q", g.name), report)
			continue
		}

		if s.run(ctx, child, report) && g.blocking {
			blocked = true
		}
	}

	return blocked
}

func (s *Suite) runTest(ctx context.Context, t *Test, report *Report) bool {
	log := s.log.WithField("test", t.path)
	start := time.Now()

	out, err := s.call(ctx, t)
	result := Result{Name: t.path, Status: Passed, Duration: time.Since(start)}
	if err != nil {
		result.Status = Failed
		result.Message = err.Error()
		log.WithError(err).Error("Test failed")
	} else {
		for k, v := range out {
			s.values[k] = v
		}
		log.Info("Test passed")
	}

	report.Results = append(report.Results, result)

	return err != nil && t.opts.blocking
}

// call runs the body with its inputs and checks its outputs. Panics in the
// body fail the test rather than the run.
func (s *Suite) call(ctx context.Context, t *Test) (out Values, err error) {
	in := Values{}
	for _, key := range t.opts.needs {
		v, ok := s.values[key]
		if !ok {
			return nil, errors.Wrapf(ErrMissingInput, "%q", key)
		}
		in[key] = v
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errors.Errorf("panic: %v", r)
		}
	}()

	out, err = t.body(ctx, in)
	if err != nil {
		return nil, err
	}

	for _, key := range t.opts.produces {
		if _, ok := out[key]; !ok {
			return nil, errors.Wrapf(ErrMissingOutput, "%q", key)
		}
	}

	return out, nil
}

// skip records c, and every test below it, as skipped.
func (s *Suite) skip(c Case, reason string, report *Report) {
	switch c := c.(type) {
	case *Test:
		s.log.WithField("test", c.path).Warn("Test skipped, " + reason)
		report.Results = append(report.Results, Result{Name: c.path, Status: Skipped, Message: reason})
	case *Group:
		for _, child := range c.children {
			s.skip(child, reason, report)
		}
	}
}
