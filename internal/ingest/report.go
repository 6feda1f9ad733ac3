package ingest

// Report is the outcome of one pipeline run.
type Report struct {
	Path    string
	Chunks  int
	Results []Result
	Err     error // upstream failure that aborted the batch
}

// Written counts the records persisted in this run.
func (r *Report) Written() int {
	return Written(r.Results)
}

// Failure returns the failed write, if any.
func (r *Report) Failure() *Result {
	return FirstFailure(r.Results)
}

// Skipped counts chunks that were never written, including a failed one.
func (r *Report) Skipped() int {
	return r.Chunks - r.Written()
}

// Complete reports whether every chunk was written.
func (r *Report) Complete() bool {
	return r.Err == nil && r.Written() == r.Chunks
}
