package board

import (
	"fmt"
	"log"
	"strings"
)

// Logger is the warning sink every component reports non-fatal conditions to.
type Logger interface {
	Warnf(category, format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Warnf(string, string, ...any) {}

// LogEntry is one recorded event.
type LogEntry struct {
	Seq      int
	Level    string // "warn" or "info"
	Category string // backend, pick, pool, config, mesh, camera, projection
	Key      string // first word of the message, e.g. "degraded"
	Value    string // full formatted message
}

// String formats the entry as a fixed-width log line.
//
//	[#004] warn pool      unknown_type   no style for "statue", using default
func (e LogEntry) String() string {
	return fmt.Sprintf("[#%03d] %-4s %-9s %-14s %s",
		e.Seq, e.Level, e.Category, e.Key, e.Value)
}

// EventLog collects structured events in memory. It is unbounded and
// machine-readable; tests and the headless report query it directly.
type EventLog struct {
	entries []LogEntry
	echo    *log.Logger
}

// NewEventLog creates an EventLog. If echo is non-nil every entry is also
// printed through it.
func NewEventLog(echo *log.Logger) *EventLog {
	return &EventLog{echo: echo}
}

// Warnf records a warning. The key is the text before the first ':' in the
// formatted message, or its first word.
func (el *EventLog) Warnf(category, format string, args ...any) {
	el.add("warn", category, fmt.Sprintf(format, args...))
}

// Infof records an informational entry.
func (el *EventLog) Infof(category, format string, args ...any) {
	el.add("info", category, fmt.Sprintf(format, args...))
}

func (el *EventLog) add(level, category, msg string) {
	e := LogEntry{
		Seq:      len(el.entries) + 1,
		Level:    level,
		Category: category,
		Key:      entryKey(msg),
		Value:    msg,
	}
	el.entries = append(el.entries, e)
	if el.echo != nil {
		el.echo.Println(e.String())
	}
}

func entryKey(msg string) string {
	if i := strings.IndexByte(msg, ':'); i > 0 {
		return strings.TrimSpace(msg[:i])
	}
	if f := strings.Fields(msg); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []LogEntry {
	return el.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match the given category and key.
func (el *EventLog) Count(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (LogEntry, bool) {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category and value substring.
func (el *EventLog) HasEntry(category, valueSubstr string) bool {
	for _, e := range el.entries {
		if e.Category == category && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Dump formats every entry, one per line.
func (el *EventLog) Dump() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
