// Package nfsproto defines the wire-level vocabulary shared by the file
// server, the request oracle and the client runtime: status codes, file
// handles and file attributes.
package nfsproto

import "fmt"

// Status is a closed set of NFSv2-style result codes. The numeric values
// match the real protocol so that traces and snapshots read the way a
// packet dump would.
type Status int

// The subset of NFSv2 status codes this package models. The server never
// returns STALE.
const (
	OK       Status = 0
	NOENT    Status = 2
	EXIST    Status = 17
	NOTDIR   Status = 20
	ISDIR    Status = 21
	NOTEMPTY Status = 66
	STALE    Status = 70
)

var statusNames = map[Status]string{
	OK:       "NFS_OK",
	NOENT:    "NFSERR_NOENT",
	EXIST:    "NFSERR_EXIST",
	NOTDIR:   "NFSERR_NOTDIR",
	ISDIR:    "NFSERR_ISDIR",
	NOTEMPTY: "NFSERR_NOTEMPTY",
	STALE:    "NFSERR_STALE",
}

// String renders the status the way the protocol names it.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("NFSERR_UNKNOWN(%d)", int(s))
}

// Error lets a Status satisfy the error interface directly, so call sites
// that want to treat a non-OK status as a Go error don't need a separate
// sentinel-wrapping step.
func (s Status) Error() string {
	return s.String()
}

// IsOK reports whether s is the success status.
func (s Status) IsOK() bool {
	return s == OK
}
