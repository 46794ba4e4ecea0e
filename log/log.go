// Package log collects the non-fatal diagnostics produced while building a
// Dictionary, a CFG, a DFG, or a Network. Every stage that can degrade
// gracefully (an unresolved reference, an unsupported construct in one
// function) appends an Entry here instead of returning an error, so callers
// can inspect what happened without aborting the whole analysis.
package log

import "bytes"

// Severity classifies an Entry. An Error means the surrounding construct
// (a single function's CFG, say) was skipped; a FatalError means the whole
// construction aborted and the accompanying error return must be checked.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	FatalError
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case FatalError:
		return "fatal"
	default:
		return "unknown"
	}
}

// Entry is a single diagnostic. NodeID, when nonzero, identifies the AST
// node the diagnostic is about (a function, a statement, an expression).
type Entry struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	NodeID   uint32   `json:"nodeId,omitempty"`
}

func (e Entry) String() string {
	var buf bytes.Buffer
	switch e.Severity {
	case Info:
	case Warning:
		buf.WriteString("warning: ")
	case Error:
		buf.WriteString("error: ")
	case FatalError:
		buf.WriteString("fatal: ")
	}
	buf.WriteString(e.Message)
	return buf.String()
}

// Log accumulates Entries over the life of a single construction (a
// Dictionary, a function's CFG, a Network). It is not safe for concurrent
// writes from multiple goroutines; each goroutine building one function's
// CFG/DFG should keep its own Log and the caller should merge them.
type Log struct {
	Entries []Entry
}

// New returns an empty Log.
func New() *Log {
	return &Log{Entries: []Entry{}}
}

// Add appends an Entry with no associated node.
func (l *Log) Add(severity Severity, message string) {
	l.Entries = append(l.Entries, Entry{Severity: severity, Message: message})
}

// AddAt appends an Entry associated with the given AST node id.
func (l *Log) AddAt(severity Severity, message string, nodeID uint32) {
	l.Entries = append(l.Entries, Entry{Severity: severity, Message: message, NodeID: nodeID})
}

// Merge appends another Log's entries onto l. Used to fold per-function
// logs produced by parallel CFG/DFG construction back into one Network-wide
// Log after all goroutines in the group have returned.
func (l *Log) Merge(other *Log) {
	if other == nil {
		return
	}
	l.Entries = append(l.Entries, other.Entries...)
}

// ContainsErrors reports whether the log contains an Error or FatalError.
func (l *Log) ContainsErrors() bool {
	for _, e := range l.Entries {
		if e.Severity >= Error {
			return true
		}
	}
	return false
}

// ContainsFatal reports whether the log contains a FatalError.
func (l *Log) ContainsFatal() bool {
	for _, e := range l.Entries {
		if e.Severity == FatalError {
			return true
		}
	}
	return false
}

func (l *Log) String() string {
	var buf bytes.Buffer
	for _, e := range l.Entries {
		buf.WriteString(e.String())
		buf.WriteString("\n")
	}
	return buf.String()
}
