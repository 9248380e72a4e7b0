package main

import (
	"github.com/tsubakinoniwa/nfschecker/explorer"
	"github.com/tsubakinoniwa/nfschecker/scenarios"
)

// suite names one set of client programs to explore, mirroring the shape
// of a single `Test` entry in the teacher's config.yaml-driven runner:
// a name plus the concrete thing to run.
type suite struct {
	name     string
	programs []explorer.Program
}

func prog(p scenarios.Program) explorer.Program {
	return explorer.Program(p)
}

// builtinSuites is the fixed set of scenario suites this binary knows how
// to run, standing in for the teacher's config.yaml-discovered backend x
// test matrix: there is no remote/backend axis in this domain, so the
// matrix collapses to "one Explorer run per suite".
var builtinSuites = []suite{
	{
		name:     "single-writer",
		programs: []explorer.Program{prog(scenarios.SingleWriter())},
	},
	{
		name: "concurrent-append-2way",
		programs: []explorer.Program{
			prog(scenarios.AppendRacer('1')),
			prog(scenarios.AppendRacer('2')),
		},
	},
	{
		name: "concurrent-append-3way",
		programs: []explorer.Program{
			prog(scenarios.AppendRacer('1')),
			prog(scenarios.AppendRacer('2')),
			prog(scenarios.AppendRacer('3')),
		},
	},
	{
		name: "cross-directory-independence",
		programs: []explorer.Program{
			prog(scenarios.DirectoryBuilder("/a", "x")),
			prog(scenarios.DirectoryBuilder("/b", "y")),
		},
	},
	{
		name: "mkdir-rmdir-race",
		programs: []explorer.Program{
			prog(scenarios.DirMaker("/d")),
			prog(scenarios.DirRemover("/d")),
		},
	},
}

// suitesByName filters builtinSuites down to the requested names, or
// returns all of them if names is empty.
func suitesByName(names []string) []suite {
	if len(names) == 0 {
		return builtinSuites
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	var out []suite
	for _, s := range builtinSuites {
		if want[s.name] {
			out = append(out, s)
		}
	}
	return out
}
