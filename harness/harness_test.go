//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package harness_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dpetersen/lingq-api/harness"
)

var errBoom = errors.New("boom")

func pass(ran *[]string, name string) harness.Func {
	return func(context.Context, harness.Values) (harness.Values, error) {
		*ran = append(*ran, name)
		return nil, nil
	}
}

func fail(ran *[]string, name string) harness.Func {
	return func(context.Context, harness.Values) (harness.Values, error) {
		*ran = append(*ran, name)
		return nil, errBoom
	}
}

func statuses(report *harness.Report) map[string]harness.Status {
	out := map[string]harness.Status{}
	for _, r := range report.Results {
		out[r.Name] = r.Status
	}

	return out
}

func result(report *harness.Report, name string) harness.Result {
	for _, r := range report.Results {
		if r.Name == name {
			return r
		}
	}

	Fail("no result named " + name)

	return harness.Result{}
}

var _ = Describe("Suite", func() {
	var (
		suite  *harness.Suite
		output *bytes.Buffer
		ran    []string
		ctx    context.Context
	)

	BeforeEach(func() {
		log := logrus.New()
		log.SetOutput(io.Discard)

		output = &bytes.Buffer{}
		suite = harness.New(harness.WithLogger(log), harness.WithOutput(output))
		ran = nil
		ctx = context.Background()
	})

	Describe("registration", func() {
		It("nests cases under the open group", func() {
			suite.Test("first", pass(&ran, "first"))
			suite.Group("outer", func() {
				suite.Test("a", pass(&ran, "a"))
				suite.Group("inner", func() {
					suite.Test("b", pass(&ran, "b"))
				})
			})
			suite.Begin("explicit")
			suite.Test("c", pass(&ran, "c"))
			suite.End()
			suite.Test("last", pass(&ran, "last"))

			cases := suite.Cases()
			Expect(cases).To(HaveLen(4))

			outer, ok := cases[1].(*harness.Group)
			Expect(ok).To(BeTrue())
			Expect(outer.Children()).To(HaveLen(2))
			Expect(outer.Children()[1].Name()).To(Equal("inner"))
			Expect(cases[2].(*harness.Group).Children()).To(HaveLen(1))

			report := suite.Run(ctx)
			Expect(ran).To(Equal([]string{"first", "a", "b", "c", "last"}))
			Expect(report.OK()).To(BeTrue())
			Expect(statuses(report)).To(HaveKey("outer > inner > b"))
		})

		It("panics on an unmatched End", func() {
			Expect(func() { suite.End() }).To(Panic())
		})
	})

	Describe("blocking", func() {
		It("runs siblings of a non-blocking group whose blocking test failed", func() {
			suite.Group("G", func() {
				suite.Test("failing", fail(&ran, "failing"), harness.Blocking())
				suite.Test("after", pass(&ran, "after"))
			})
			suite.Test("S", pass(&ran, "S"))

			report := suite.Run(ctx)

			Expect(ran).To(Equal([]string{"failing", "after", "S"}))
			Expect(statuses(report)).To(Equal(map[string]harness.Status{
				"G > failing": harness.Failed,
				"G > after":   harness.Passed,
				"S":           harness.Passed,
			}))
		})

		It("does not let a non-blocking group block its parent", func() {
			suite.Group("parent", func() {
				suite.Group("child", func() {
					suite.Test("failing", fail(&ran, "failing"), harness.Blocking())
				})
				suite.Test("sibling", pass(&ran, "sibling"))
			}, harness.Blocking())

			report := suite.Run(ctx)

			Expect(ran).To(Equal([]string{"failing", "sibling"}))
			Expect(result(report, "parent > sibling").Status).To(Equal(harness.Passed))
		})

		It("skips the rest of a blocking group and names the group", func() {
			suite.Group("lifecycle", func() {
				suite.Test("create", fail(&ran, "create"), harness.Blocking())
				suite.Test("read", pass(&ran, "read"))
				suite.Group("mutate", func() {
					suite.Test("update", pass(&ran, "update"))
					suite.Group("deeper", func() {
						suite.Test("delete", pass(&ran, "delete"))
					})
				})
			}, harness.Blocking())
			suite.Test("unrelated", pass(&ran, "unrelated"))

			report := suite.Run(ctx)

			Expect(ran).To(Equal([]string{"create", "unrelated"}))
			for _, name := range []string{"lifecycle > read", "lifecycle > mutate > update", "lifecycle > mutate > deeper > delete"} {
				r := result(report, name)
				Expect(r.Status).To(Equal(harness.Skipped))
				Expect(r.Message).To(ContainSubstring(`"lifecycle"`))
			}
			Expect(result(report, "unrelated").Status).To(Equal(harness.Passed))
			Expect(report.OK()).To(BeFalse())
		})

		It("keeps running a blocking group after a non-blocking failure", func() {
			suite.Group("G", func() {
				suite.Test("soft", fail(&ran, "soft"))
				suite.Test("next", pass(&ran, "next"))
			}, harness.Blocking())

			suite.Run(ctx)

			Expect(ran).To(Equal([]string{"soft", "next"}))
		})

		It("propagates through nested blocking groups", func() {
			suite.Group("outer", func() {
				suite.Group("inner", func() {
					suite.Test("failing", fail(&ran, "failing"), harness.Blocking())
					suite.Test("inner sibling", pass(&ran, "inner sibling"))
				}, harness.Blocking())
				suite.Test("outer sibling", pass(&ran, "outer sibling"))
			}, harness.Blocking())

			report := suite.Run(ctx)

			Expect(ran).To(Equal([]string{"failing"}))
			Expect(result(report, "outer > inner > inner sibling").Message).To(ContainSubstring(`"inner"`))
			Expect(result(report, "outer > outer sibling").Message).To(ContainSubstring(`"outer"`))
		})

		It("does not stop later roots", func() {
			suite.Test("first", fail(&ran, "first"), harness.Blocking())
			suite.Test("second", pass(&ran, "second"))

			suite.Run(ctx)

			Expect(ran).To(Equal([]string{"first", "second"}))
		})
	})

	Describe("values", func() {
		It("passes outputs to the tests that need them", func() {
			suite.Test("create", func(context.Context, harness.Values) (harness.Values, error) {
				return harness.Values{"lessonID": 42}, nil
			}, harness.Produces("lessonID"))
			suite.Test("read", func(_ context.Context, in harness.Values) (harness.Values, error) {
				Expect(in.Int("lessonID")).To(Equal(42))
				Expect(in).To(HaveLen(1))
				return nil, nil
			}, harness.Needs("lessonID"))

			Expect(suite.Validate()).To(Succeed())
			Expect(suite.Dependencies()).To(Equal([]harness.Dependency{
				{Key: "lessonID", From: "create", To: "read"},
			}))
			Expect(suite.Run(ctx).OK()).To(BeTrue())
		})

		It("fails a test whose input was never produced", func() {
			suite.Test("create", fail(&ran, "create"), harness.Produces("lessonID"))
			suite.Test("read", pass(&ran, "read"), harness.Needs("lessonID"))

			report := suite.Run(ctx)

			Expect(ran).To(Equal([]string{"create"}))
			Expect(result(report, "read").Status).To(Equal(harness.Failed))
			Expect(result(report, "read").Message).To(ContainSubstring("missing input"))
		})

		It("fails a test that does not produce what it declared", func() {
			suite.Test("create", pass(&ran, "create"), harness.Produces("lessonID"), harness.Blocking())

			report := suite.Run(ctx)

			Expect(result(report, "create").Status).To(Equal(harness.Failed))
			Expect(result(report, "create").Message).To(ContainSubstring("missing output"))
		})

		It("reports needs without a producer", func() {
			suite.Test("read", pass(&ran, "read"), harness.Needs("lessonID"))
			suite.Begin("unclosed")

			err := suite.Validate()
			Expect(err).To(MatchError(ContainSubstring(`read needs "lessonID"`)))
			Expect(err).To(MatchError(ContainSubstring(`"unclosed" was never closed`)))
		})
	})

	Describe("failures", func() {
		It("turns a panic into a failed test", func() {
			suite.Test("panics", func(context.Context, harness.Values) (harness.Values, error) {
				panic("kaboom")
			}, harness.Blocking())
			suite.Test("after", pass(&ran, "after"))

			report := suite.Run(ctx)

			Expect(result(report, "panics").Message).To(ContainSubstring("kaboom"))
			Expect(ran).To(Equal([]string{"after"}))
		})
	})

	Describe("report", func() {
		It("prints passed and failed results separately", func() {
			suite.Group("G", func() {
				suite.Test("ok", pass(&ran, "ok"))
				suite.Test("bad", fail(&ran, "bad"), harness.Blocking())
				suite.Test("never", pass(&ran, "never"))
			}, harness.Blocking())

			report := suite.Run(ctx)

			Expect(report.Passed()).To(HaveLen(1))
			Expect(report.Failed()).To(HaveLen(2))
			Expect(output.String()).To(ContainSubstring("Passed (1):"))
			Expect(output.String()).To(ContainSubstring("Failed or skipped (2):"))
			Expect(output.String()).To(ContainSubstring("G > bad [failed]: boom"))
			Expect(output.String()).To(ContainSubstring(`G > never [skipped]: blocked by "G"`))
		})

		It("writes itself as JSON", func() {
			suite.Test("ok", pass(&ran, "ok"))
			report := suite.Run(ctx)

			path := filepath.Join(GinkgoT().TempDir(), "report.json")
			Expect(report.WriteFile(path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			var decoded harness.Report
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded.Results).To(HaveLen(1))
			Expect(decoded.Results[0].Status).To(Equal(harness.Passed))
		})
	})
})
