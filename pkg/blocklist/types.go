// Package blocklist downloads domain block lists, normalizes and merges them, and renders the
// result for DNS servers and hosts files.
package blocklist

// Source describes one remote block list.
type Source struct {
	ID       string
	Location string
}

// FetchResult is the outcome of one download attempt. Err is a *FetchError when set.
type FetchResult struct {
	Source  Source
	Content []byte
	Err     error
}

// ParseStats summarises normalization of one source.
type ParseStats struct {
	TotalLines int
	Domains    int
	Invalid    int
}

// SourceReport records what a single source contributed to a run.
type SourceReport struct {
	Source Source
	Stats  ParseStats
	Err    error
}

// Failed reports whether the source contributed nothing because its download failed.
func (r SourceReport) Failed() bool {
	return r.Err != nil
}

// Report summarises a completed run.
type Report struct {
	Sources      []SourceReport
	LocalEntries int
	Domains      int
	Output       string
	Mode         Mode
}

// FailedSources returns the number of sources whose download failed.
func (r *Report) FailedSources() int {
	failed := 0
	for _, s := range r.Sources {
		if s.Failed() {
			failed++
		}
	}
	return failed
}
