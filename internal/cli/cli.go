// Package cli provides the command-line interface for TradeCortex.
package cli

import (
	"errors"
	"fmt"
	"os"
)

// exitError carries a process exit code through cobra's error path.
// 1 means workflow failure or missing credentials, 2 invalid
// configuration.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitWith(code int, format string, args ...any) error {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}

// Run executes the CLI and exits the process with the command's code.
func Run() {
	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.msg != "" {
				fmt.Fprintln(os.Stderr, exitErr.msg)
			}
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}
