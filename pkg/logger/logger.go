// Package logger keeps a bounded, tagged log for the generator and its
// players. The tag names the part of the program that made an entry.
//
// The package functions write to Default. Consecutive identical entries are
// counted rather than stored twice.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Entry is a single line of the log.
type Entry struct {
	Tag    string
	Detail string

	// number of times the entry was logged in a row
	Count int
}

func (e Entry) String() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s: %s (x%d)\n", e.Tag, e.Detail, e.Count)
	}
	return fmt.Sprintf("%s: %s\n", e.Tag, e.Detail)
}

// Logger holds the most recent entries in a ring.
type Logger struct {
	mu   sync.Mutex
	ring []Entry
	head int
	size int
	echo io.Writer
}

// New returns a log keeping up to capacity entries.
func New(capacity int) *Logger {
	return &Logger{ring: make([]Entry, max(capacity, 1))}
}

// Default is the log of the running program.
var Default = New(256)

func (l *Logger) at(i int) *Entry {
	return &l.ring[(l.head+i)%len(l.ring)]
}

// Add appends an entry. Newlines are folded into spaces so that every entry
// prints on one line.
func (l *Logger) Add(tag, detail string) {
	e := Entry{
		Tag:    strings.ReplaceAll(tag, "\n", ""),
		Detail: strings.ReplaceAll(detail, "\n", " "),
		Count:  1,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.echo != nil {
		io.WriteString(l.echo, e.String())
	}

	if l.size > 0 {
		if last := l.at(l.size - 1); last.Tag == e.Tag && last.Detail == e.Detail {
			last.Count++
			return
		}
	}
	if l.size == len(l.ring) {
		l.head = (l.head + 1) % len(l.ring)
		l.size--
	}
	*l.at(l.size) = e
	l.size++
}

// Entries returns a copy of the entries, oldest first.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]Entry, l.size)
	for i := range res {
		res[i] = *l.at(i)
	}
	return res
}

// Tail writes the last n entries to w. A negative n writes them all.
func (l *Logger) Tail(w io.Writer, n int) {
	entries := l.Entries()
	if n < 0 || n > len(entries) {
		n = len(entries)
	}
	for _, e := range entries[len(entries)-n:] {
		io.WriteString(w, e.String())
	}
}

// Clear drops every entry.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.head, l.size = 0, 0
}

// SetEcho prints new entries to w as they are added. A nil writer turns
// echoing off.
func (l *Logger) SetEcho(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.echo = w
}

// Log adds an entry to Default.
func Log(tag, detail string) {
	Default.Add(tag, detail)
}

// Logf adds a formatted entry to Default.
func Logf(tag, format string, args ...any) {
	Default.Add(tag, fmt.Sprintf(format, args...))
}

// Write writes every entry of Default to w.
func Write(w io.Writer) {
	Default.Tail(w, -1)
}

// Tail writes the last n entries of Default to w.
func Tail(w io.Writer, n int) {
	Default.Tail(w, n)
}

// Clear drops every entry of Default.
func Clear() {
	Default.Clear()
}

// SetEcho prints new entries of Default to w.
func SetEcho(w io.Writer) {
	Default.SetEcho(w)
}
