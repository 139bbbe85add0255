package errors

import (
	"fmt"
	"sort"
	"sync"
)

// Diagnostic is a located finding about a generated artifact, such as a
// stylesheet parse error or a reference to an undefined custom property.
type Diagnostic struct {
	Artifact string
	Line     int
	Column   int
	Message  string
	Severity Severity
}

// Severity represents the severity of a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Artifact, d.Line, d.Column, d.Severity, d.Message)
}

// Collector collects diagnostics from concurrent or sequential producers.
type Collector struct {
	diagnostics []Diagnostic
	mutex       sync.RWMutex
}

// NewCollector creates a new diagnostic collector
func NewCollector() *Collector {
	return &Collector{
		diagnostics: make([]Diagnostic, 0),
	}
}

// Add adds a diagnostic to the collector
func (c *Collector) Add(d Diagnostic) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns the collected diagnostics ordered by artifact, line and
// column.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mutex.RLock()
	result := make([]Diagnostic, len(c.diagnostics))
	copy(result, c.diagnostics)
	c.mutex.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Artifact != b.Artifact {
			return a.Artifact < b.Artifact
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return result
}

// ForArtifact returns diagnostics for a specific artifact
func (c *Collector) ForArtifact(artifact string) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics() {
		if d.Artifact == artifact {
			out = append(out, d)
		}
	}
	return out
}

// Count returns how many diagnostics have at least the given severity.
func (c *Collector) Count(min Severity) int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity >= min {
			n++
		}
	}
	return n
}

// HasErrors returns true if any diagnostic is an error
func (c *Collector) HasErrors() bool {
	return c.Count(SeverityError) > 0
}

// Clear clears all diagnostics
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.diagnostics = c.diagnostics[:0]
}
