package fetch

import "io"

// A ProgressTracker receives a copy of every byte written to a destination file.
type ProgressTracker interface {
	io.Writer
	Finish() error
}

// A ProgressFunc starts tracking a download of total bytes (-1 if unknown).
type ProgressFunc func(description string, total int64) ProgressTracker
