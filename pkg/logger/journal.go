package logger

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultJournalCapacity bounds how many events a run keeps
const DefaultJournalCapacity = 200

// Entry is one recorded log event
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Journal records the log events of a single run.
// It is a zerolog.Hook, attached with Logger.WithHook, and replaces any
// process-wide log buffer: every run owns its own journal.
type Journal struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	dropped  int
	now      func() time.Time
}

// NewJournal creates a journal keeping at most capacity entries (oldest dropped first)
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return &Journal{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Run implements zerolog.Hook
func (j *Journal) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	if msg == "" {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.entries) == j.capacity {
		j.entries = j.entries[1:]
		j.dropped++
	}
	j.entries = append(j.entries, Entry{
		Time:    j.now(),
		Level:   level.String(),
		Message: msg,
	})
}

// Entries returns a copy of the recorded events, oldest first
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Last returns the latest n events
func (j *Journal) Last(n int) []Entry {
	entries := j.Entries()
	if n >= len(entries) {
		return entries
	}
	if n <= 0 {
		return []Entry{}
	}
	return entries[len(entries)-n:]
}

// Dropped returns how many events were evicted because of the capacity bound
func (j *Journal) Dropped() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}
