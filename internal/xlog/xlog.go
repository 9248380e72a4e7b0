// Package xlog is a small leveled logger in the style of rclone's fs.Logf
// family: every call takes an arbitrary "subject" first argument that gets
// rendered alongside the message, so a log line can be traced back to the
// scenario, request or suite that produced it without every call site
// having to format that prefix itself.
package xlog

import (
	"fmt"
	"log"
	"os"
)

// Verbose enables Debugf output. Off by default, the way rclone's -v flag
// gates fs.Debugf.
var Verbose = false

func subjectf(subject interface{}, format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	if subject == nil {
		return msg
	}
	return fmt.Sprintf("%v: %s", subject, msg)
}

// Debugf logs a debug-level message about subject when Verbose is set.
func Debugf(subject interface{}, format string, a ...interface{}) {
	if !Verbose {
		return
	}
	log.Print(subjectf(subject, format, a...))
}

// Logf logs a normal informational message about subject.
func Logf(subject interface{}, format string, a ...interface{}) {
	log.Print(subjectf(subject, format, a...))
}

// Fatalf logs a message about subject and terminates the process. Reserved
// for conditions that are genuinely unrecoverable (explorer-internal
// invariant violations, CLI setup failures) — never for expected protocol
// status codes.
func Fatalf(subject interface{}, format string, a ...interface{}) {
	log.Print(subjectf(subject, format, a...))
	os.Exit(1)
}
