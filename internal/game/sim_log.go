package game

import (
	"fmt"
	"strings"
)

// Log categories.
const (
	catSpawn   = "spawn"
	catRegion  = "region"
	catEffect  = "effect"
	catTurn    = "turn"
	catEconomy = "economy"
	catAudio   = "audio"
	catUI      = "ui"
)

// SimLogEntry is one recorded event during a session.
type SimLogEntry struct {
	Tick     int
	Subject  string  // region or ball label e.g. "cash#3fa2", "ball#17", or "--" for global events
	Category string  // spawn, region, effect, turn, economy, audio, ui
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] cash#3fa2    effect    cash_payout      ball#17 level 2 × 3
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-12s %-9s %-16s %s",
		e.Tick, e.Subject, e.Category, e.Key, e.Value)
}

// SimLog collects structured events. Unlike EventLog (UI ring-buffer),
// SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
	sink    func(SimLogEntry)
}

// NewSimLog creates a SimLog. If verbose is true, per-tick entries such as
// stuck-timer samples are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// OnAdd registers fn to be called for every recorded entry.
func (sl *SimLog) OnAdd(fn func(SimLogEntry)) { sl.sink = fn }

// Add records a new entry.
func (sl *SimLog) Add(tick int, subject, category, key, value string, numVal float64) {
	e := SimLogEntry{
		Tick:     tick,
		Subject:  subject,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	sl.entries = append(sl.entries, e)
	if sl.sink != nil {
		sl.sink(e)
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, subject, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, subject, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
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

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// regionLabel is the short subject label used for a region in logs.
func regionLabel(r *Region) string {
	return fmt.Sprintf("%s#%s", r.Kind, r.ID.String()[:4])
}

// ballLabel is the short subject label used for a ball in logs.
func ballLabel(b *Ball) string {
	if b.IsTest {
		return fmt.Sprintf("test#%d", b.body.ID())
	}
	return fmt.Sprintf("ball#%d", b.body.ID())
}
