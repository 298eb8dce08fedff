package tree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyName indicates a lookup name with no keys or an empty key.
var ErrEmptyName = errors.New("signal name must contain non-empty keys")

// SpecError reports malformed specification content: the tree itself is
// wrong, independent of what the caller asked for.
type SpecError struct {
	// Path is the dotted path of the offending node, if known.
	Path string
	Msg  string
	Err  error
}

func (e *SpecError) Error() string {
	s := "spec error"
	if e.Path != "" {
		s += " at " + e.Path
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *SpecError) Unwrap() error { return e.Err }

func specErrorf(path []string, idx int, format string, args ...any) *SpecError {
	return &SpecError{
		Path: strings.Join(path[:idx], "."),
		Msg:  fmt.Sprintf(format, args...),
	}
}

// BranchError reports a lookup that addressed something the tree does not
// have: an unknown domain or child, a branch where a signal was expected,
// or a missing/illegal instance key.
type BranchError struct {
	// Path is the dotted path that was resolved before the failure.
	Path string
	Msg  string
}

func (e *BranchError) Error() string {
	s := "branch error"
	if e.Path != "" {
		s += " at " + e.Path
	}
	return s + ": " + e.Msg
}

func branchErrorf(path []string, idx int, format string, args ...any) *BranchError {
	return &BranchError{
		Path: strings.Join(path[:idx], "."),
		Msg:  fmt.Sprintf(format, args...),
	}
}

// IsSpecError returns true if err is or wraps a SpecError.
func IsSpecError(err error) bool {
	var se *SpecError
	return errors.As(err, &se)
}

// IsBranchError returns true if err is or wraps a BranchError.
func IsBranchError(err error) bool {
	var be *BranchError
	return errors.As(err, &be)
}
