// Package journal keeps the append-only system log shown to operators.
// Entries are descriptive only: nothing in the pipeline reads them back.
package journal

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service tags the component that emitted a log entry.
type Service string

const (
	ServiceScanner    Service = "SCANNER"
	ServiceClassifier Service = "CLASSIFIER"
	ServiceEnrichment Service = "ENRICHMENT"
	ServiceSheets     Service = "SHEETS"
	ServiceSystem     Service = "SYSTEM"
)

// Severity grades a log entry.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Entry is one immutable system-log record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Service   Service   `json:"service"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

// Journal is a bounded append-only event log. Appends are mirrored to the
// global zap logger so operators see the same stream on stdout.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
	max     int
}

// DefaultCapacity bounds the number of retained entries.
const DefaultCapacity = 500

// New creates a journal retaining up to max entries (DefaultCapacity if <= 0).
func New(max int) *Journal {
	if max <= 0 {
		max = DefaultCapacity
	}
	return &Journal{max: max}
}

// Append records one entry. The oldest entry is evicted once the journal is
// full.
func (j *Journal) Append(service Service, severity Severity, message, details string) Entry {
	entry := Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Service:   service,
		Severity:  severity,
		Message:   message,
		Details:   details,
	}

	j.mu.Lock()
	j.entries = append(j.entries, entry)
	if len(j.entries) > j.max {
		j.entries = j.entries[len(j.entries)-j.max:]
	}
	j.mu.Unlock()

	fields := []zap.Field{
		zap.String("service", string(service)),
	}
	if details != "" {
		fields = append(fields, zap.String("details", details))
	}
	switch severity {
	case SeverityWarning:
		zap.L().Warn(message, fields...)
	case SeverityError, SeverityCritical:
		zap.L().Error(message, fields...)
	default:
		zap.L().Info(message, fields...)
	}

	return entry
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (j *Journal) Recent(n int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if n <= 0 || n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(j.entries) - 1; i >= len(j.entries)-n; i-- {
		out = append(out, j.entries[i])
	}
	return out
}

// Len reports the number of retained entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}
