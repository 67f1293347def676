package work

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abelbrown/ggmine/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Pool runs submitted items on at most a fixed number of goroutines.
// Submit blocks while every slot is busy. Wait is the join barrier.
// A failing or panicking item never stops the others.
type Pool struct {
	workers int
	g       errgroup.Group

	mu    sync.Mutex
	items []*Item

	nextID         atomic.Int64
	totalCreated   atomic.Int64
	totalCompleted atomic.Int64
	totalFailed    atomic.Int64
}

// NewPool creates a pool with the given number of workers.
// If workers <= 0, uses runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{workers: workers}
	p.g.SetLimit(workers)
	logging.Debug("Work pool created", "workers", workers)
	return p
}

// Submit schedules fn and returns its item.
func (p *Pool) Submit(typ Type, desc string, fn func() (string, error)) *Item {
	return p.SubmitWithData(typ, desc, "", func() (string, any, error) {
		result, err := fn()
		return result, nil, err
	})
}

// SubmitWithData schedules fn; its data value is stored on Item.Data.
func (p *Pool) SubmitWithData(typ Type, desc, source string, fn func() (string, any, error)) *Item {
	item := &Item{
		ID:          fmt.Sprintf("w%d", p.nextID.Add(1)),
		Type:        typ,
		Status:      StatusPending,
		Description: desc,
		Source:      source,
		CreatedAt:   time.Now(),
		workFn:      fn,
	}

	p.mu.Lock()
	p.items = append(p.items, item)
	p.mu.Unlock()
	p.totalCreated.Add(1)
	LogEvent(Event{Item: item, Change: "created"})

	p.g.Go(func() error {
		p.execute(item)
		return nil
	})
	return item
}

// execute runs a single work item.
func (p *Pool) execute(item *Item) {
	p.mu.Lock()
	item.Status = StatusActive
	item.StartedAt = time.Now()
	p.mu.Unlock()
	LogEvent(Event{Item: item, Change: "started"})

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Work panicked",
				"id", item.ID,
				"panic", r)
			p.complete(item, "", nil, fmt.Errorf("panic: %v", r))
		}
	}()

	if item.workFn == nil {
		p.complete(item, "", nil, fmt.Errorf("no work function"))
		return
	}

	result, data, err := item.workFn()
	p.complete(item, result, data, err)
}

// complete marks a work item as finished.
func (p *Pool) complete(item *Item, result string, data any, err error) {
	p.mu.Lock()
	item.FinishedAt = time.Now()
	item.Result = result
	item.Data = data
	item.Error = err
	if err != nil {
		item.Status = StatusFailed
	} else {
		item.Status = StatusComplete
	}
	p.mu.Unlock()

	change := "completed"
	if err != nil {
		change = "failed"
		p.totalFailed.Add(1)
	} else {
		p.totalCompleted.Add(1)
	}
	LogEvent(Event{Item: item, Change: change})
}

// Wait blocks until every submitted item has finished and returns all
// items in submission order.
func (p *Pool) Wait() []*Item {
	p.g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Item, len(p.items))
	copy(out, p.items)
	return out
}

// Stats returns current totals.
func (p *Pool) Stats() Stats {
	return Stats{
		TotalCreated:   p.totalCreated.Load(),
		TotalCompleted: p.totalCompleted.Load(),
		TotalFailed:    p.totalFailed.Load(),
		WorkersTotal:   p.workers,
	}
}
