// Package fsserver implements the deterministic, single-threaded,
// in-memory NFSv2-like file tree the explorer drives. Modeled in the
// rclone corpus's own in-memory backend (backend/memory/memory.go): a
// mutex-guarded tree reached through a small set of value-returning
// methods, no goroutines, no I/O.
package fsserver

import (
	"sync"

	"github.com/tsubakinoniwa/nfschecker/internal/hashutil"
	"github.com/tsubakinoniwa/nfschecker/internal/xlog"
	"github.com/tsubakinoniwa/nfschecker/nfsproto"
)

// Reply is the server's response to a procedure call. Only the fields
// relevant to the calling procedure and to a successful Status are
// meaningful; spec.md's "on non-OK status, remaining tuple fields are
// absent" is rendered in Go as "zero-valued and ignored by the caller",
// since Go has no tuple-arity discrimination to piggy-back on.
type Reply struct {
	Status nfsproto.Status
	Handle nfsproto.FileHandle
	Attr   nfsproto.FileAttribute
	Data   []byte
}

func errReply(s nfsproto.Status) Reply {
	return Reply{Status: s}
}

// Server is a single, deterministic in-memory file tree. All mutation
// flows through its procedure methods, each of which runs to completion
// without suspending, per spec.md §5 ("no server procedure suspends").
type Server struct {
	mu   sync.Mutex
	root *node
}

// New creates a Server with the default initial tree: two empty regular
// files at the root, matching spec.md §3's example initial state.
func New() *Server {
	root := newDir()
	root.children["foo.txt"] = newFile()
	root.children["bar.txt"] = newFile()
	return &Server{root: root}
}

// NewEmpty creates a Server whose root directory starts with no children,
// for tests and scenarios that want to build their own initial tree.
func NewEmpty() *Server {
	return &Server{root: newDir()}
}

// resolve walks h's path components from the root, returning the final
// node. It implements spec.md §4.1's shared path-resolution primitive:
// NOENT if a component is missing, NOENT if an intermediate node is a
// file with components still remaining.
func (s *Server) resolve(h nfsproto.FileHandle) (*node, nfsproto.Status) {
	cur := s.root
	for _, name := range h.Components() {
		if cur.isFile() {
			return nil, nfsproto.NOENT
		}
		child, ok := cur.children[name]
		if !ok {
			return nil, nfsproto.NOENT
		}
		cur = child
	}
	return cur, nfsproto.OK
}

func attrOf(n *node) nfsproto.FileAttribute {
	if n.isFile() {
		return nfsproto.FileAttribute{Size: len(n.content)}
	}
	return nfsproto.FileAttribute{Size: 0}
}

// GetAttr implements the GETATTR procedure.
func (s *Server) GetAttr(h nfsproto.FileHandle) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(h)
	if !st.IsOK() {
		return errReply(st)
	}
	xlog.Debugf(nfsproto.GETATTR, "getattr %s", h)
	return Reply{Status: nfsproto.OK, Handle: h, Attr: attrOf(n)}
}

// Lookup implements the LOOKUP procedure.
func (s *Server) Lookup(dir nfsproto.FileHandle, name string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(dir)
	if !st.IsOK() {
		return errReply(st)
	}
	if !n.isDir() {
		return errReply(nfsproto.NOTDIR)
	}
	child, ok := n.children[name]
	if !ok {
		return errReply(nfsproto.NOENT)
	}
	h := dir.Child(name)
	xlog.Debugf(nfsproto.LOOKUP, "lookup %s/%s", dir, name)
	return Reply{Status: nfsproto.OK, Handle: h, Attr: attrOf(child)}
}

// Read implements the READ procedure.
func (s *Server) Read(h nfsproto.FileHandle, offset, count int) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(h)
	if !st.IsOK() {
		return errReply(st)
	}
	if n.isDir() {
		return errReply(nfsproto.ISDIR)
	}
	end := offset + count
	if end > len(n.content) {
		end = len(n.content)
	}
	var data []byte
	if offset < end {
		data = append([]byte(nil), n.content[offset:end]...)
	} else {
		data = []byte{}
	}
	xlog.Debugf(nfsproto.READ, "read %s [%d:%d]", h, offset, end)
	return Reply{Status: nfsproto.OK, Handle: h, Attr: attrOf(n), Data: data}
}

// Write implements the WRITE procedure, extending the file with NUL bytes
// before overwriting, exactly as spec.md §4.1/§8 requires.
func (s *Server) Write(h nfsproto.FileHandle, offset int, data []byte) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(h)
	if !st.IsOK() {
		return errReply(st)
	}
	if n.isDir() {
		return errReply(nfsproto.ISDIR)
	}
	need := offset + len(data)
	if need > len(n.content) {
		grown := make([]byte, need)
		copy(grown, n.content)
		n.content = grown
	}
	copy(n.content[offset:offset+len(data)], data)
	xlog.Debugf(nfsproto.WRITE, "write %s [%d:+%d]", h, offset, len(data))
	return Reply{Status: nfsproto.OK, Handle: h, Attr: attrOf(n)}
}

// Create implements the CREATE procedure.
func (s *Server) Create(dir nfsproto.FileHandle, name string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(dir)
	if !st.IsOK() {
		return errReply(st)
	}
	if !n.isDir() {
		return errReply(nfsproto.NOTDIR)
	}
	if _, exists := n.children[name]; exists {
		return errReply(nfsproto.EXIST)
	}
	child := newFile()
	n.children[name] = child
	h := dir.Child(name)
	xlog.Debugf(nfsproto.CREATE, "create %s/%s", dir, name)
	return Reply{Status: nfsproto.OK, Handle: h, Attr: attrOf(child)}
}

// Remove implements the REMOVE procedure.
func (s *Server) Remove(dir nfsproto.FileHandle, name string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(dir)
	if !st.IsOK() {
		return errReply(st)
	}
	if !n.isDir() {
		return errReply(nfsproto.NOTDIR)
	}
	child, ok := n.children[name]
	if !ok {
		return errReply(nfsproto.NOENT)
	}
	if child.isDir() {
		return errReply(nfsproto.ISDIR)
	}
	delete(n.children, name)
	xlog.Debugf(nfsproto.REMOVE, "remove %s/%s", dir, name)
	return Reply{Status: nfsproto.OK}
}

// Mkdir implements the MKDIR procedure.
func (s *Server) Mkdir(dir nfsproto.FileHandle, name string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(dir)
	if !st.IsOK() {
		return errReply(st)
	}
	if !n.isDir() {
		return errReply(nfsproto.NOTDIR)
	}
	if _, exists := n.children[name]; exists {
		return errReply(nfsproto.EXIST)
	}
	child := newDir()
	n.children[name] = child
	h := dir.Child(name)
	xlog.Debugf(nfsproto.MKDIR, "mkdir %s/%s", dir, name)
	return Reply{Status: nfsproto.OK, Handle: h, Attr: attrOf(child)}
}

// Rmdir implements the RMDIR procedure. NOTDIR covers both a Regular
// parent handle and a Regular child by the given name, matching spec.md
// §4.1's "distinct in spec" note.
func (s *Server) Rmdir(dir nfsproto.FileHandle, name string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, st := s.resolve(dir)
	if !st.IsOK() {
		return errReply(st)
	}
	if !n.isDir() {
		return errReply(nfsproto.NOTDIR)
	}
	child, ok := n.children[name]
	if !ok {
		return errReply(nfsproto.NOENT)
	}
	if !child.isDir() {
		return errReply(nfsproto.NOTDIR)
	}
	if len(child.children) > 0 {
		return errReply(nfsproto.NOTEMPTY)
	}
	delete(n.children, name)
	xlog.Debugf(nfsproto.RMDIR, "rmdir %s/%s", dir, name)
	return Reply{Status: nfsproto.OK}
}

// Digest returns a non-canonical content digest of the current snapshot,
// useful for telling two large snapshots apart at a glance in a CLI
// report. It plays no role in Result equality, which is always the
// snapshot string itself.
func (s *Server) Digest() string {
	snap := s.Snapshot()
	return hashutil.Sum(hashutil.SHA256, []byte(snap))
}
