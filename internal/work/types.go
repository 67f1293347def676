// Package work runs the pipeline's parallel stages as tracked work items.
// Every item moves through pending, active and complete or failed, and
// each change is logged through internal/logging.
package work

import (
	"fmt"
	"time"

	"github.com/abelbrown/ggmine/internal/logging"
)

// LogEvent logs a work event.
func LogEvent(event Event) {
	item := event.Item
	switch event.Change {
	case "created":
		logging.Debug("Work created",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description)
	case "started":
		logging.Debug("Work started",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description)
	case "completed":
		logging.Info("Work completed",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description,
			"result", item.Result,
			"duration", item.Duration())
	case "failed":
		logging.Error("Work failed",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description,
			"error", item.Error,
			"duration", item.Duration())
	}
}

// Type categorizes work items.
type Type string

const (
	TypePreprocess Type = "preprocess" // text cleanup of a post batch
	TypeCluster    Type = "cluster"    // award detection and association for one cluster
	TypeOther      Type = "other"
)

// Status is the lifecycle state of a work item.
type Status string

const (
	StatusPending  Status = "pending"  // submitted, waiting for a slot
	StatusActive   Status = "active"   // running
	StatusComplete Status = "complete" // finished successfully
	StatusFailed   Status = "failed"   // finished with an error or panic
)

// Item is one unit of work.
type Item struct {
	ID          string
	Type        Type
	Status      Status
	Description string // "cluster 10:30"

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	Result string // "4 awards"
	Error  error
	Data   any // value returned by a SubmitWithData function

	Source string // cluster key or other context

	workFn func() (string, any, error)
}

// Duration returns how long the work took, or has been running.
func (i *Item) Duration() time.Duration {
	if i.FinishedAt.IsZero() {
		if i.StartedAt.IsZero() {
			return 0
		}
		return time.Since(i.StartedAt)
	}
	return i.FinishedAt.Sub(i.StartedAt)
}

// Event describes a state change of an item.
type Event struct {
	Item   *Item
	Change string // "created", "started", "completed", "failed"
}

// Stats tracks pool totals.
type Stats struct {
	TotalCreated   int64
	TotalCompleted int64
	TotalFailed    int64
	WorkersTotal   int
}

// String returns a summary string for stats.
func (s Stats) String() string {
	return fmt.Sprintf("Workers: %d  Created: %d  Done: %d  Failed: %d",
		s.WorkersTotal, s.TotalCreated, s.TotalCompleted, s.TotalFailed)
}
