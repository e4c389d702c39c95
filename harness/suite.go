// Package harness runs a tree of dependent test cases one after another.
//
// It exists for tests against a live service, where later steps need what
// earlier steps created (a lesson id, say) and a failure part way through
// should stop dependent steps instead of running them against an unknown
// state. Tests pass values to each other explicitly: a test declares the
// named values it Needs and the ones it Produces, which keeps the dependency
// graph visible through Dependencies.
//
// A case is either a test or a group of cases. A blocking test that fails
// signals "blocked" to its group. A blocking group skips the rest of its
// children once one of them is blocked and passes the signal up; a
// non-blocking group absorbs it. Root level cases always run.
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMissingInput fails a test whose declared inputs were never produced.
	ErrMissingInput = errors.New("missing input")
	// ErrMissingOutput fails a test that passed without producing what it declared.
	ErrMissingOutput = errors.New("missing output")
)

// Values carries named values between tests.
type Values map[string]interface{}

// Int returns the named value as an int.
func (v Values) Int(key string) int {
	i, _ := v[key].(int)
	return i
}

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Func is the body of a test. It receives the values named by Needs and
// returns the values it Produces.
type Func func(ctx context.Context, in Values) (Values, error)

// Case is a test or a group.
type Case interface {
	Name() string
	Blocking() bool
}

type caseOptions struct {
	blocking bool
	needs    []string
	produces []string
}

type CaseOption func(*caseOptions)

// Blocking makes a failure of the case stop the rest of its group.
func Blocking() CaseOption {
	return func(o *caseOptions) {
		o.blocking = true
	}
}

func Needs(keys ...string) CaseOption {
	return func(o *caseOptions) {
		o.needs = append(o.needs, keys...)
	}
}

func Produces(keys ...string) CaseOption {
	return func(o *caseOptions) {
		o.produces = append(o.produces, keys...)
	}
}

type Test struct {
	name string
	path string
	opts caseOptions
	body Func
}

func (t *Test) Name() string { return t.name }
func (t *Test) Blocking() bool { return t.opts.blocking }
func (t *Test) Needs() []string { return t.opts.needs }
func (t *Test) Produces() []string { return t.opts.produces }

type Group struct {
	name     string
	path     string
	blocking bool
	children []Case
}

func (g *Group) Name() string { return g.name }
func (g *Group) Blocking() bool { return g.blocking }
func (g *Group) Children() []Case { return g.children }

// Suite collects cases and runs them. It is not safe for concurrent use.
type Suite struct {
	roots  []Case
	stack  []*Group
	values Values
	log    logrus.FieldLogger
	out    io.Writer
}

type Option func(*Suite)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Suite) {
		s.log = log
	}
}

// WithOutput sets where the summary is printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Suite) {
		s.out = w
	}
}

func New(opts ...Option) *Suite {
	s := &Suite{
		values: Values{},
		log:    logrus.StandardLogger(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Test registers a test in the innermost open group, or at the root.
func (s *Suite) Test(name string, body Func, opts ...CaseOption) {
	t := &Test{name: name, path: s.pathTo(name), body: body}
	for _, opt := range opts {
		opt(&t.opts)
	}

	s.add(t)
}

// Group registers a group and calls fn with it open, so that cases registered
// by fn become its children. Groups nest to any depth.
func (s *Suite) Group(name string, fn func(), opts ...CaseOption) {
	s.Begin(name, opts...)
	defer s.End()

	fn()
}

// Begin opens a group; every case registered until the matching End goes
// into it.
func (s *Suite) Begin(name string, opts ...CaseOption) {
	var o caseOptions
	for _, opt := range opts {
		opt(&o)
	}

	g := &Group{name: name, path: s.pathTo(name), blocking: o.blocking}
	s.add(g)
	s.stack = append(s.stack, g)
}

// End closes the innermost open group.
func (s *Suite) End() {
	if len(s.stack) == 0 {
		panic("harness: End without Begin")
	}

	s.stack = s.stack[:len(s.stack)-1]
}

// Cases returns the root cases in registration order.
func (s *Suite) Cases() []Case {
	return s.roots
}

func (s *Suite) add(c Case) {
	if len(s.stack) == 0 {
		s.roots = append(s.roots, c)
		return
	}

	g := s.stack[len(s.stack)-1]
	g.children = append(g.children, c)
}

func (s *Suite) pathTo(name string) string {
	parts := make([]string, 0, len(s.stack)+1)
	for _, g := range s.stack {
		parts = append(parts, g.name)
	}

	return strings.Join(append(parts, name), " > ")
}

// Dependency is one edge of the graph: To needs Key, which From produces.
// From is empty when nothing registered earlier produces Key.
type Dependency struct {
	Key  string
	From string
	To   string
}

// Dependencies walks the cases in run order and links every need to the
// latest earlier test that produces it.
func (s *Suite) Dependencies() []Dependency {
	var deps []Dependency
	producers := map[string]string{}

	walk(s.roots, func(t *Test) {
		for _, key := range t.opts.needs {
			deps = append(deps, Dependency{Key: key, From: producers[key], To: t.path})
		}
		for _, key := range t.opts.produces {
			producers[key] = t.path
		}
	})

	return deps
}

// Validate reports needs that no earlier test produces.
func (s *Suite) Validate() error {
	var problems []string
	for _, dep := range s.Dependencies() {
		if dep.From == "" {
			problems = append(problems, fmt.Sprintf("%s needs %q", dep.To, dep.Key))
		}
	}

	if len(s.stack) > 0 {
		problems = append(problems, fmt.Sprintf("group %q was never closed", s.stack[len(s.stack)-1].path))
	}

	if len(problems) > 0 {
		return errors.Errorf("invalid suite: %s", strings.Join(problems, "; "))
	}

	return nil
}

func walk(cases []Case, fn func(*Test)) {
	for _, c := range cases {
		switch c := c.(type) {
		case *Test:
			fn(c)
		case *Group:
			walk(c.children, fn)
		}
	}
}
