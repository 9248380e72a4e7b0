package explorer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tsubakinoniwa/nfschecker/request"
)

// canonicalKey implements spec.md §4.5: walk the served requests left to
// right, growing a "block" of pids whose requests pairwise-commute with
// the immediately previous request in the block; start a new block when
// the next request doesn't commute with the previous one. Each completed
// block is sorted ascending and joined with a '*' separator; the last
// block has no trailing separator. Two histories sharing this key are
// equivalent under adjacent-commuting swaps.
func canonicalKey(pids []int, served []request.Request) string {
	var blocks [][]int
	var current []int
	for i, req := range served {
		if i > 0 && !request.Commutes(req, served[i-1]) {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, pids[i])
	}
	blocks = append(blocks, current)

	var sb strings.Builder
	for bi, block := range blocks {
		sorted := append([]int(nil), block...)
		sort.Ints(sorted)
		parts := make([]string, len(sorted))
		for i, p := range sorted {
			parts[i] = strconv.Itoa(p)
		}
		sb.WriteString(strings.Join(parts, ","))
		if bi != len(blocks)-1 {
			sb.WriteByte('*')
		}
	}
	return sb.String()
}
