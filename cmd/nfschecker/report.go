package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/tsubakinoniwa/nfschecker/internal/xlog"
)

// SuiteResult is the outcome of exploring one suite, the unit a Report is
// built from — analogous to the teacher's *runs.Run per test/backend
// combination.
type SuiteResult struct {
	Name      string        `json:"name"`
	Results   int           `json:"results"`
	Scenarios []string      `json:"scenarios"`
	Err       string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

func (r *SuiteResult) passed() bool {
	return r.Err == ""
}

// Report collects every SuiteResult from one run, the way the teacher's
// Report collects Runs across backends, minus the HTML/email/upload
// surfaces this domain has no use for.
type Report struct {
	StartTime time.Time
	Duration  time.Duration
	Passed    []*SuiteResult
	Failed    []*SuiteResult
}

// NewReport starts a Report timer.
func NewReport() *Report {
	return &Report{StartTime: time.Now()}
}

// RecordResult files s into Passed or Failed.
func (r *Report) RecordResult(s *SuiteResult) {
	if s.passed() {
		r.Passed = append(r.Passed, s)
	} else {
		r.Failed = append(r.Failed, s)
	}
}

// End stops the Report timer and sorts results by name for deterministic
// output.
func (r *Report) End() {
	r.Duration = time.Since(r.StartTime)
	sort.Slice(r.Passed, func(i, j int) bool { return r.Passed[i].Name < r.Passed[j].Name })
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Name < r.Failed[j].Name })
}

// AllPassed reports whether every suite explored without error.
func (r *Report) AllPassed() bool {
	return len(r.Failed) == 0
}

// LogSummary prints a short text summary, the teacher's LogSummary style.
func (r *Report) LogSummary() {
	xlog.Logf(nil, "SUMMARY")
	if r.AllPassed() {
		xlog.Logf(nil, "PASS: %d suites explored OK in %v", len(r.Passed), r.Duration)
	} else {
		xlog.Logf(nil, "FAIL: %d of %d suites errored in %v", len(r.Failed), len(r.Passed)+len(r.Failed), r.Duration)
		for _, s := range r.Failed {
			xlog.Logf(nil, "  * %s: %s", s.Name, s.Err)
		}
	}
	for _, s := range r.Passed {
		xlog.Logf(nil, "  * %s: %d unique executions", s.Name, s.Results)
	}
}

// LogJSON writes the full report to path as JSON.
func (r *Report) LogJSON(path string) error {
	out, err := json.MarshalIndent(r, "", "\t")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, out, 0o666)
}
