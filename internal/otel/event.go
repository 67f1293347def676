// Package otel records a run's milestones as JSONL events, one line per
// event, next to the text log. The file is meant for scripts comparing
// runs; the text log stays the place for humans.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind names an event, "<stage>.<action>".
type EventKind string

const (
	KindRunStart    EventKind = "run.start"
	KindRunComplete EventKind = "run.complete"
	KindRunError    EventKind = "run.error"

	KindCacheHit           EventKind = "cache.hit"
	KindCacheMiss          EventKind = "cache.miss"
	KindPreprocessComplete EventKind = "preprocess.complete"

	KindClusterComplete  EventKind = "cluster.complete"
	KindClusterError     EventKind = "cluster.error"
	KindPipelineComplete EventKind = "pipeline.complete"
)

// Event is one JSONL record. Every field except Kind and Time is optional.
type Event struct {
	Time    time.Time     `json:"t"`
	Level   Level         `json:"level,omitempty"`
	Kind    EventKind     `json:"kind"`
	RunID   string        `json:"run_id,omitempty"` // random hex, same for the whole run
	Cluster string        `json:"cluster,omitempty"`
	Dur     time.Duration `json:"-"`
	DurMs   float64       `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Posts   int           `json:"posts,omitempty"`
	Awards  int           `json:"awards,omitempty"`
	Err     string        `json:"err,omitempty"`
	Msg     string        `json:"msg,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
