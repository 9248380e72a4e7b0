// Package errors provides Walk, a helper for following a chain of wrapped
// errors down to their root cause, grounded on rclone's lib/errors. It
// understands three different wrapping conventions found in the wild —
// github.com/pkg/errors's Cause() method, the standard library's Unwrap()
// (error) method, and the Go 1.20 Unwrap() []error method for errors that
// wrap more than one cause — plus a reflection-based fallback for structs
// that embed an error field without implementing either interface.
package errors

import "reflect"

// causer is satisfied by github.com/pkg/errors-style wrapped errors.
type causer interface {
	Cause() error
}

// wrapper is satisfied by standard library errors.Unwrap-style wrapped
// errors.
type wrapper interface {
	Unwrap() error
}

// multiWrapper is satisfied by errors that wrap more than one cause.
type multiWrapper interface {
	Unwrap() []error
}

// Walk calls fn on err and then, unless fn returns true, on each cause in
// err's wrapping chain, depth first. It stops descending a branch as soon
// as fn returns true for it, and stops entirely once there is nothing left
// to unwrap.
func Walk(err error, fn func(error) bool) {
	if err == nil {
		return
	}
	if fn(err) {
		return
	}
	switch e := err.(type) {
	case causer:
		Walk(e.Cause(), fn)
	case wrapper:
		Walk(e.Unwrap(), fn)
	case multiWrapper:
		for _, sub := range e.Unwrap() {
			Walk(sub, fn)
		}
	default:
		walkReflect(err, fn)
	}
}

// walkReflect handles errors that embed a cause in an exported "Err"
// field without implementing causer or wrapper — a shape seen in some
// hand-rolled error structs in the corpus.
func walkReflect(err error, fn func(error) bool) {
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Struct {
		return
	}
	field := v.FieldByName("Err")
	if !field.IsValid() {
		return
	}
	cause, ok := field.Interface().(error)
	if !ok || cause == nil {
		return
	}
	Walk(cause, fn)
}
