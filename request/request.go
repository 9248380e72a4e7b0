// Package request describes one pending RPC as an immutable value plus a
// static commutativity oracle over pairs of such values, grounded on
// request.py's Request class and its commutes_with method.
package request

import (
	"fmt"

	"github.com/tsubakinoniwa/nfschecker/nfsproto"
)

// Request is an immutable description of a single pending RPC. Only the
// fields relevant to its Kind are meaningful: Dir+Name for the five
// name-based procedures, Handle(+Offset+Data) for the rest.
type Request struct {
	Kind   nfsproto.ProcKind
	Dir    nfsproto.FileHandle
	Name   string
	Handle nfsproto.FileHandle
	Offset int
	Data   []byte
	Count  int
}

// GetAttr builds a GETATTR request.
func GetAttr(h nfsproto.FileHandle) Request {
	return Request{Kind: nfsproto.GETATTR, Handle: h}
}

// Lookup builds a LOOKUP request.
func Lookup(dir nfsproto.FileHandle, name string) Request {
	return Request{Kind: nfsproto.LOOKUP, Dir: dir, Name: name}
}

// Read builds a READ request.
func Read(h nfsproto.FileHandle, offset, count int) Request {
	return Request{Kind: nfsproto.READ, Handle: h, Offset: offset, Count: count}
}

// Write builds a WRITE request.
func Write(h nfsproto.FileHandle, offset int, data []byte) Request {
	return Request{Kind: nfsproto.WRITE, Handle: h, Offset: offset, Data: data}
}

// Create builds a CREATE request.
func Create(dir nfsproto.FileHandle, name string) Request {
	return Request{Kind: nfsproto.CREATE, Dir: dir, Name: name}
}

// Remove builds a REMOVE request.
func Remove(dir nfsproto.FileHandle, name string) Request {
	return Request{Kind: nfsproto.REMOVE, Dir: dir, Name: name}
}

// Mkdir builds a MKDIR request.
func Mkdir(dir nfsproto.FileHandle, name string) Request {
	return Request{Kind: nfsproto.MKDIR, Dir: dir, Name: name}
}

// Rmdir builds a RMDIR request.
func Rmdir(dir nfsproto.FileHandle, name string) Request {
	return Request{Kind: nfsproto.RMDIR, Dir: dir, Name: name}
}

// fileOps is the set of kinds spec.md §3 calls "file operations".
var fileOps = map[nfsproto.ProcKind]bool{
	nfsproto.GETATTR: true,
	nfsproto.LOOKUP:  true,
	nfsproto.READ:    true,
	nfsproto.WRITE:   true,
	nfsproto.CREATE:  true,
	nfsproto.REMOVE:  true,
}

// readOnly is the set of kinds that never mutate the node they target,
// used by rule 1 of the commutativity oracle.
var readOnly = map[nfsproto.ProcKind]bool{
	nfsproto.GETATTR: true,
	nfsproto.LOOKUP:  true,
	nfsproto.READ:    true,
}

// IsFileOp reports whether r targets a file-op node (as opposed to
// MKDIR/RMDIR, the directory ops).
func (r Request) IsFileOp() bool {
	return fileOps[r.Kind]
}

// IsReadOnly reports whether r is in the read-only group {GETATTR,
// LOOKUP, READ}.
func (r Request) IsReadOnly() bool {
	return readOnly[r.Kind]
}

// pathComponents returns the node r targets, as a path from the root:
// Dir+Name for the five name-based procedures, Handle for the rest.
func (r Request) pathComponents() []string {
	switch r.Kind {
	case nfsproto.LOOKUP, nfsproto.CREATE, nfsproto.REMOVE, nfsproto.MKDIR, nfsproto.RMDIR:
		return r.Dir.Child(r.Name).Components()
	default:
		return r.Handle.Components()
	}
}

// Path returns the absolute path string of the node r operates on,
// spec.md §4.2's path_of(x).
func (r Request) Path() string {
	comps := r.pathComponents()
	if len(comps) == 0 {
		return "/"
	}
	out := ""
	for _, c := range comps {
		out += "/" + c
	}
	return out
}

// String renders r for trace lines.
func (r Request) String() string {
	switch r.Kind {
	case nfsproto.LOOKUP, nfsproto.CREATE, nfsproto.REMOVE, nfsproto.MKDIR, nfsproto.RMDIR:
		return fmt.Sprintf("%s(%s, %q)", r.Kind, r.Dir, r.Name)
	case nfsproto.READ:
		return fmt.Sprintf("%s(%s, off=%d, count=%d)", r.Kind, r.Handle, r.Offset, r.Count)
	case nfsproto.WRITE:
		return fmt.Sprintf("%s(%s, off=%d, len=%d)", r.Kind, r.Handle, r.Offset, len(r.Data))
	default:
		return fmt.Sprintf("%s(%s)", r.Kind, r.Handle)
	}
}
