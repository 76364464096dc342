package domain

import "time"

// SourceStamp is a source path and its modification time when a target was last built.
type SourceStamp struct {
	Path string `json:"path"`
	// ModTime is in Unix milliseconds.
	ModTime int64 `json:"mtime"`
}

// HistoryEntry fingerprints the last successful build of one output file.
// Output and source paths are relative to the build root.
type HistoryEntry struct {
	Output         string        `json:"output"`
	Config         string        `json:"config"`
	FlagsSignature string        `json:"flags_signature"`
	Sources        []SourceStamp `json:"sources"`
	Timestamp      time.Time     `json:"timestamp"`
}
