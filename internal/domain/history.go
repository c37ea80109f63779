package domain

import "time"

// MaxHistoryEntries bounds the history log.
const MaxHistoryEntries = 10

// DefaultTimestampLayout renders local time the way a browser locale string does.
const DefaultTimestampLayout = "1/2/2006, 3:04:05 PM"

// HistoryEntry records one successful prediction.
type HistoryEntry struct {
	Timestamp  string        `json:"timestamp"`
	Features   FeatureVector `json:"features"`
	Prediction Prediction    `json:"prediction"`
	Species    string        `json:"species"`
}

// NewHistoryEntry builds an entry stamped with at, formatted using layout.
func NewHistoryEntry(at time.Time, layout string, features FeatureVector, prediction Prediction) HistoryEntry {
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return HistoryEntry{
		Timestamp:  at.Format(layout),
		Features:   features,
		Prediction: prediction,
		Species:    SpeciesLabel(prediction),
	}
}

// HistoryLog is ordered newest first. Methods never modify the receiver.
type HistoryLog []HistoryEntry

// Prepend returns a new log with entry first, bounded to MaxHistoryEntries.
func (l HistoryLog) Prepend(entry HistoryEntry) HistoryLog {
	out := make(HistoryLog, 0, len(l)+1)
	out = append(out, entry)
	out = append(out, l...)
	return out.Truncate()
}

// Truncate returns at most the first MaxHistoryEntries entries.
func (l HistoryLog) Truncate() HistoryLog {
	n := len(l)
	if n > MaxHistoryEntries {
		n = MaxHistoryEntries
	}
	out := make(HistoryLog, n)
	copy(out, l[:n])
	return out
}

// Empty reports whether the log has no entries.
func (l HistoryLog) Empty() bool {
	return len(l) == 0
}
