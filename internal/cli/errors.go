package cli

import (
	"errors"

	"github.com/njchilds90/symcalc"
)

// UsageError reports a problem with how symcalc was invoked: missing input,
// a malformed --subs entry or an invalid flag value.
type UsageError struct {
	Msg string
	Err error
}

func (e *UsageError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *UsageError) Unwrap() error { return e.Err }

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// ExitCode maps an error returned by the root command to the process exit
// status: parse and evaluation failures exit 1, everything else that goes
// wrong before an operation runs (usage, unknown flags or commands) exits 2.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	var parseErr *symcalc.ParseError
	var evalErr *symcalc.EvalError
	if errors.As(err, &parseErr) || errors.As(err, &evalErr) {
		return ExitError
	}
	return ExitUsage
}
