package abm

import (
	"errors"
	"fmt"
	"strings"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitIO     = 1
	ExitConfig = 2
)

// ConfigError is a malformed argument or an invalid run configuration.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IOError wraps a failure to open, read or write a file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// ParseError collects every problem found in a sample record.
type ParseError struct {
	Source   string
	Problems []string
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "sample"
	}
	return fmt.Sprintf("%s: %s", src, strings.Join(e.Problems, "; "))
}

func (e *ParseError) add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// ExitCode maps an error returned by Run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	return ExitIO
}
