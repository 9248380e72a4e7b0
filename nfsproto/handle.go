package nfsproto

import "strings"

// FileHandle identifies a node in the server's tree as the sequence of path
// components leading to it from the root. The root itself is the empty
// handle. Handles are values, not pointers: two handles with the same
// components are the same handle.
type FileHandle struct {
	components []string
}

// RootHandle is the handle of the server's root directory.
func RootHandle() FileHandle {
	return FileHandle{}
}

// NewFileHandle builds a handle from path components, copying the slice so
// callers can't mutate a handle after the fact.
func NewFileHandle(components ...string) FileHandle {
	cp := make([]string, len(components))
	copy(cp, components)
	return FileHandle{components: cp}
}

// Child returns the handle for name directly under h.
func (h FileHandle) Child(name string) FileHandle {
	return NewFileHandle(append(h.components, name)...)
}

// Parent returns the handle of h's containing directory and whether h had
// one (the root handle has none).
func (h FileHandle) Parent() (FileHandle, bool) {
	if len(h.components) == 0 {
		return FileHandle{}, false
	}
	return NewFileHandle(h.components[:len(h.components)-1]...), true
}

// Name returns the last path component of h, or "" for the root.
func (h FileHandle) Name() string {
	if len(h.components) == 0 {
		return ""
	}
	return h.components[len(h.components)-1]
}

// Components returns a copy of h's path components.
func (h FileHandle) Components() []string {
	cp := make([]string, len(h.components))
	copy(cp, h.components)
	return cp
}

// IsRoot reports whether h is the root handle.
func (h FileHandle) IsRoot() bool {
	return len(h.components) == 0
}

// String renders h as a slash-joined path, for logging and traces.
func (h FileHandle) String() string {
	if len(h.components) == 0 {
		return "/"
	}
	return "/" + strings.Join(h.components, "/")
}
