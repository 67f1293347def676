package otel

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// writerChanSize bounds events waiting for the writer.
const writerChanSize = 1024

// Logger writes events as JSONL from a single background goroutine. All
// methods are safe for concurrent use and on a nil *Logger, which drops
// everything.
type Logger struct {
	runID     string
	ch        chan []byte
	w         io.Writer
	closer    io.Closer // file opened by Open, nil otherwise
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger starts a Logger writing to w. Call Close to flush.
func NewLogger(w io.Writer) *Logger {
	var id [8]byte
	_, _ = rand.Read(id[:])

	l := &Logger{
		runID: fmt.Sprintf("%x", id[:]),
		ch:    make(chan []byte, writerChanSize),
		w:     w,
		done:  make(chan struct{}),
	}
	go l.drain()
	return l
}

// Open starts a Logger appending to ggmine-events-YYYY-MM-DD.jsonl in dir.
func Open(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create event log dir: %w", err)
	}
	name := fmt.Sprintf("ggmine-events-%s.jsonl", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	l := NewLogger(f)
	l.closer = f
	return l, nil
}

func (l *Logger) drain() {
	defer close(l.done)
	for data := range l.ch {
		if _, err := l.w.Write(data); err != nil {
			l.dropped.Add(1)
		}
	}
}

// Emit queues e, filling in Time and RunID. It never blocks: when the
// queue is full or the logger is closed the event is counted as dropped.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	defer func() {
		// Close can race the closed check below.
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.RunID = l.runID

	data, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}

	select {
	case l.ch <- append(data, '\n'):
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Msg: msg})
}

// Error emits an error-level event. A nil err is logged as empty.
func (l *Logger) Error(kind EventKind, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Err: msg})
}

// RunID returns the identifier stamped on every event.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Dropped returns the number of events lost since creation.
func (l *Logger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close flushes queued events and stops the writer. Later Emit calls are
// dropped.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done
		if l.closer != nil {
			err = l.closer.Close()
		}
	})
	return err
}
