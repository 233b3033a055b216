package blocklist

import (
	"fmt"
)

// FetchError reports a source that could not be downloaded. It is recovered per source.
type FetchError struct {
	Source     Source
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source.Location, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InputListError reports an unreadable sources or local block list file.
type InputListError struct {
	Path string
	Err  error
}

func (e *InputListError) Error() string {
	return fmt.Sprintf("load list %s: %v", e.Path, e.Err)
}

func (e *InputListError) Unwrap() error {
	return e.Err
}

// FormatModeError reports an unknown output type or an unusable line template.
type FormatModeError struct {
	Value  string
	Reason string
}

func (e *FormatModeError) Error() string {
	return fmt.Sprintf("invalid output format %q: %s", e.Value, e.Reason)
}

// WriteError reports a failure to persist the rendered block list.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
