// Command nfschecker runs the interleaving explorer over a fixed suite
// of scenario programs and reports the distinct executions each one
// finds, in the shape of the teacher's fstest/test_all binary: stdlib
// flag configuration, a pacer-bounded goroutine fan-out, channel
// collection, then a text summary plus a JSON dump.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/tsubakinoniwa/nfschecker/explorer"
	"github.com/tsubakinoniwa/nfschecker/internal/xlog"
	"github.com/tsubakinoniwa/nfschecker/lib/atexit"
	"github.com/tsubakinoniwa/nfschecker/lib/errors"
	"github.com/tsubakinoniwa/nfschecker/lib/exitcode"
	"github.com/tsubakinoniwa/nfschecker/lib/pacer"
)

// Opt holds the CLI's options, filled in by flag.*Var the way the
// teacher's test_all.go populates its Opt struct.
var Opt = struct {
	Verbose   bool
	Reduction string
	MaxDepth  int
	MaxN      int
	Suites    string
	Output    string
	Hash      bool
}{}

func init() {
	flag.BoolVar(&Opt.Verbose, "verbose", false, "Enable verbose logging during exploration")
	flag.StringVar(&Opt.Reduction, "reduction", "memo", "Partial-order reduction strategy: memo, unionfind, or none")
	flag.IntVar(&Opt.MaxDepth, "max-depth", 0, "Recursion depth safety rail (0 = unlimited)")
	flag.IntVar(&Opt.MaxN, "n", 4, "Maximum number of suites to explore at once")
	flag.StringVar(&Opt.Suites, "suites", "", "Comma separated list of suites to run, blank for all")
	flag.StringVar(&Opt.Output, "output", "nfschecker-report.json", "Path to write the JSON report")
	flag.BoolVar(&Opt.Hash, "hash", false, "Include a non-canonical content digest alongside each scenario's snapshot")
}

func parseStrategy(s string) (explorer.Strategy, error) {
	switch s {
	case "memo", "":
		return explorer.ReductionMemo, nil
	case "unionfind":
		return explorer.ReductionUnionFind, nil
	case "none":
		return explorer.ReductionNone, nil
	default:
		return 0, pkgerrors.Errorf("unknown reduction strategy %q", s)
	}
}

func runSuite(s suite, strategy explorer.Strategy) *SuiteResult {
	result := &SuiteResult{Name: s.name}
	start := time.Now()

	opts := []explorer.Option{explorer.WithReduction(strategy)}
	if Opt.MaxDepth > 0 {
		opts = append(opts, explorer.WithMaxDepth(Opt.MaxDepth))
	}
	e := explorer.New(s.programs, opts...)
	rs, err := e.Explore()
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = describeFailure(err)
		return result
	}

	result.Results = rs.Len()
	for i, r := range rs.Results() {
		scenario := r.Format(i + 1)
		if Opt.Hash {
			scenario += fmt.Sprintf("Hash: %s\n", r.Digest())
		}
		result.Scenarios = append(result.Scenarios, scenario)
	}
	return result
}

// describeFailure unwraps err's cause chain for the report line, the way
// the teacher's CLI surfaces why a suite aborted.
func describeFailure(err error) string {
	var causes []string
	errors.Walk(err, func(e error) bool {
		causes = append(causes, e.Error())
		return false
	})
	return strings.Join(causes, ": ")
}

func main() {
	flag.Parse()
	xlog.Verbose = Opt.Verbose

	strategy, err := parseStrategy(Opt.Reduction)
	if err != nil {
		xlog.Fatalf(nil, "invalid -reduction flag: %v", err)
	}

	var suites []suite
	if Opt.Suites == "" {
		suites = builtinSuites
	} else {
		suites = suitesByName(strings.Split(Opt.Suites, ","))
	}
	if len(suites) == 0 {
		xlog.Fatalf(nil, "no suites matched -suites=%q", Opt.Suites)
	}

	report := NewReport()
	atexit.Register(func() {
		if err := report.LogJSON(Opt.Output); err != nil {
			xlog.Logf(nil, "failed to flush report on interrupt: %v", err)
		}
	})

	results := make(chan *SuiteResult, len(suites))
	tokens := pacer.NewTokenDispenser(Opt.MaxN)
	for _, s := range suites {
		tokens.Get()
		go func(s suite) {
			defer tokens.Put()
			results <- runSuite(s, strategy)
		}(s)
	}

	for i := 0; i < len(suites); i++ {
		report.RecordResult(<-results)
	}

	report.End()
	report.LogSummary()
	if err := report.LogJSON(Opt.Output); err != nil {
		xlog.Fatalf(nil, "failed to write report: %v", err)
	}

	if !report.AllPassed() {
		os.Exit(exitcode.ExplorationError)
	}
}
