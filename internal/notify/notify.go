// Package notify delivers transient user-visible notices (the "toast" of the console).
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level is the severity of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is one transient message
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Error builds an error notice stamped with the current time
func Error(message string) Notice {
	return Notice{Level: LevelError, Message: message, Time: time.Now()}
}

// Success builds a success notice stamped with the current time
func Success(message string) Notice {
	return Notice{Level: LevelSuccess, Message: message, Time: time.Now()}
}

// Notifier displays notices
type Notifier interface {
	Notify(n Notice)
}

// Discard drops every notice
type Discard struct{}

func (Discard) Notify(Notice) {}

// Writer prints notices to a terminal stream
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter returns a notifier printing to out
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := "•"
	switch n.Level {
	case LevelError:
		prefix = "✗"
	case LevelWarning:
		prefix = "!"
	case LevelSuccess:
		prefix = "✓"
	}
	fmt.Fprintf(w.out, "%s %s\n", prefix, n.Message)
}

// Queue buffers notices until a view drains them
type Queue struct {
	mu     sync.Mutex
	items  []Notice
	max    int
	logger zerolog.Logger
}

// NewQueue returns a queue holding at most max notices; older ones are dropped first
func NewQueue(max int, logger zerolog.Logger) *Queue {
	if max <= 0 {
		max = 50
	}
	return &Queue{max: max, logger: logger}
}

func (q *Queue) Notify(n Notice) {
	q.logger.Debug().Str("level", string(n.Level)).Str("message", n.Message).Msg("Notice queued")

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if len(q.items) > q.max {
		q.items = q.items[len(q.items)-q.max:]
	}
}

// Drain returns the queued notices in arrival order and empties the queue
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	if items == nil {
		return []Notice{}
	}
	return items
}

// Recorder keeps every notice; used by tests
type Recorder struct {
	mu      sync.Mutex
	Notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	r.Notices = append(r.Notices, n)
	r.mu.Unlock()
}

// Messages returns the recorded messages in order
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Notices))
	for i, n := range r.Notices {
		out[i] = n.Message
	}
	return out
}
