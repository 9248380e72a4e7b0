package fsserver

import "encoding/json"

// Snapshot returns the canonical serialization of the tree: a JSON object
// per directory (encoding/json sorts map keys, giving the "sort by name"
// determinism spec.md §3/§6 requires for free) and a JSON string per
// regular file holding its raw byte content, NULs included.
func (s *Server) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := json.Marshal(snapshotNode(s.root))
	if err != nil {
		// The commutativity oracle and snapshot serializer are total
		// functions per spec.md §7; a marshal failure here means the
		// tree holds something snapshotNode didn't account for.
		panic("fsserver: snapshot serialization failed: " + err.Error())
	}
	return string(out)
}

func snapshotNode(n *node) interface{} {
	if n.isFile() {
		return string(n.content)
	}
	obj := make(map[string]interface{}, len(n.children))
	for name, child := range n.children {
		obj[name] = snapshotNode(child)
	}
	return obj
}
