// Package feed is the append-only notification log behind the kill feed.
package feed

import (
	"sync"
	"time"
)

type Entry struct {
	Seq  int       `json:"seq"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Watcher is called after every append with the new entry. A watcher that
// shows the feed keeps the newest entry in view.
type Watcher func(Entry)

type Option func(*Log)

// WithCapacity bounds how many entries are kept in memory. Sequence numbers
// keep counting when old entries are evicted.
func WithCapacity(n int) Option {
	return func(l *Log) { l.capacity = n }
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	next     int
	capacity int
	now      func() time.Time
	watchers []Watcher
}

func New(opts ...Option) *Log {
	l := &Log{next: 1, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Watch registers w for all future appends.
func (l *Log) Watch(w Watcher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers = append(l.watchers, w)
}

func (l *Log) Append(text string) Entry {
	l.mu.Lock()
	e := Entry{Seq: l.next, Text: text, At: l.now()}
	l.next++
	l.entries = append(l.entries, e)
	if l.capacity > 0 && len(l.entries) > l.capacity {
		l.entries = append(l.entries[:0:0], l.entries[len(l.entries)-l.capacity:]...)
	}
	watchers := l.watchers
	l.mu.Unlock()

	for _, w := range watchers {
		w(e)
	}
	return e
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Log) Entries() []Entry {
	return l.Tail(0)
}

// Tail returns the newest n entries, oldest first. n <= 0 returns all.
func (l *Log) Tail(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := 0
	if n > 0 && n < len(l.entries) {
		start = len(l.entries) - n
	}
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}
