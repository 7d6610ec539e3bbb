package events

import "time"

// PipelineStart is emitted before a workspace operation runs.
type PipelineStart struct {
	Op string
}

// PipelineFinish is emitted after a workspace operation completes.
// Nodes counts the top-level nodes of the result; Conflicts is set for
// failed merges.
type PipelineFinish struct {
	Op        string
	Nodes     int
	Conflicts int
	Err       error
	Duration  time.Duration
}
