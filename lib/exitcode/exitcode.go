// Package exitcode defines the process exit codes the CLI driver uses,
// mirroring rclone's lib/exitcode convention of naming codes instead of
// sprinkling magic numbers through main().
package exitcode

const (
	// Success means the run completed with no failures.
	Success = 0
	// UsageError means the command line could not be parsed.
	UsageError = 1
	// ExplorationError means an Explorer run aborted with an error.
	ExplorationError = 2
	// UncategorizedError is used where the cause doesn't fit another code,
	// e.g. a signal this process doesn't recognize.
	UncategorizedError = 3
)
