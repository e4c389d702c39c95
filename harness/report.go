package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Report is everything a run recorded, in execution order.
type Report struct {
	Results  []Result  `json:"results"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

func (r *Report) Passed() []Result {
	return r.filter(func(res Result) bool { return res.Status == Passed })
}

// Failed returns failed and skipped results.
func (r *Report) Failed() []Result {
	return r.filter(func(res Result) bool { return res.Status != Passed })
}

// OK is true when every test ran and passed.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

func (r *Report) filter(keep func(Result) bool) []Result {
	var results []Result
	for _, res := range r.Results {
		if keep(res) {
			results = append(results, res)
		}
	}

	return results
}

func (r *Report) Print(w io.Writer) {
	passed, failed := r.Passed(), r.Failed()

	fmt.Fprintf(w, "\nPassed (%d):\n", len(passed))
	for _, res := range passed {
		fmt.Fprintf(w, "  ✓ %s (%s)\n", res.Name, res.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(w, "\nFailed or skipped (%d):\n", len(failed))
	for _, res := range failed {
		fmt.Fprintf(w, "  ✗ %s [%s]: %s\n", res.Name, res.Status, res.Message)
	}
}

// WriteFile stores the report as JSON at path.
func (r *Report) WriteFile(path string) error {
	jsonData, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling JSON")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report file")
	}
	defer file.Close()

	if _, err = file.Write(jsonData); err != nil {
		return errors.Wrap(err, "writing report")
	}

	return nil
}
