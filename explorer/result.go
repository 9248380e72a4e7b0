package explorer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tsubakinoniwa/nfschecker/internal/hashutil"
)

// Result is one observationally distinct equivalence class of schedules:
// the per-process response vectors (only READ replies are logged, per
// spec.md §4.4/§9) plus the final server snapshot. Equality is structural
// over both fields, spec.md §3's "Equality and hash are structural".
type Result struct {
	Responses [][]string
	Snapshot  string
}

func (r Result) key() string {
	b, err := json.Marshal(r)
	if err != nil {
		panic("explorer: result serialization failed: " + err.Error())
	}
	return string(b)
}

// Format renders r the way the original summarize() prints one block:
// one line per process with a non-empty response vector, then the final
// server snapshot line.
func (r Result) Format(index int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scenario #%d\n", index)
	for pid, resp := range r.Responses {
		if len(resp) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "p%d: %v\n", pid, resp)
	}
	fmt.Fprintf(&sb, "File: %s\n", r.Snapshot)
	return sb.String()
}

// Digest returns a non-canonical content digest of r's snapshot, the same
// algorithm fsserver.Server.Digest exposes on a live server. It plays no
// role in Result equality or dedup — only the CLI's optional -hash output
// uses it, for telling two large snapshots apart at a glance.
func (r Result) Digest() string {
	return hashutil.Sum(hashutil.SHA256, []byte(r.Snapshot))
}

// ResultSet is the deduplicated set of Results an Explorer run produced.
type ResultSet struct {
	byKey map[string]Result
	order []string
}

func newResultSet() *ResultSet {
	return &ResultSet{byKey: map[string]Result{}}
}

func (rs *ResultSet) add(r Result) {
	k := r.key()
	if _, ok := rs.byKey[k]; ok {
		return
	}
	rs.byKey[k] = r
	rs.order = append(rs.order, k)
}

// Len returns the number of distinct Results.
func (rs *ResultSet) Len() int {
	return len(rs.byKey)
}

// Results returns every Result, sorted by their canonical key so that two
// runs over the same inputs produce byte-identical ordering, per spec.md
// §8's determinism property.
func (rs *ResultSet) Results() []Result {
	keys := append([]string(nil), rs.order...)
	sort.Strings(keys)
	out := make([]Result, 0, len(keys))
	for _, k := range keys {
		out = append(out, rs.byKey[k])
	}
	return out
}

// Format renders the whole set the way summarize() does: a header with
// the total count, then one block per Result in canonical order.
func (rs *ResultSet) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(&sb, "The simulation found %d unique executions.\n", rs.Len())
	fmt.Fprintf(&sb, "%s\n", strings.Repeat("=", 50))
	for i, r := range rs.Results() {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 50) + "\n")
		sb.WriteString(r.Format(i + 1))
		sb.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return sb.String()
}
