package cmd

import (
	"errors"

	"github.com/b11005/blink-idl-diff/internal/app"
)

// Exit codes.
const (
	exitOK    = 0
	exitIO    = 1
	exitInput = 2
)

// exitError carries a specific exit code to main.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

// usageError marks err as caused by the command line or configuration.
func usageError(err error) error {
	if err == nil {
		return nil
	}
	return exitError{code: exitInput, err: err}
}

// ExitCode maps an error returned by Execute to the process exit code:
// 0 on success, 2 for malformed input and usage errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if app.IsInputError(err) {
		return exitInput
	}
	return exitIO
}
