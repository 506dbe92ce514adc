package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
)

// categoryColors tints the marker dot of each log line.
var categoryColors = map[string]color.RGBA{
	catSpawn:   {R: 200, G: 200, B: 200, A: 255},
	catRegion:  {R: 90, G: 160, B: 230, A: 255},
	catEffect:  {R: 170, G: 110, B: 230, A: 255},
	catTurn:    {R: 230, G: 200, B: 60, A: 255},
	catEconomy: {R: 80, G: 210, B: 120, A: 255},
	catAudio:   {R: 230, G: 90, B: 90, A: 255},
	catUI:      {R: 150, G: 150, B: 170, A: 255},
}

// EventEntry is a single line in the event log.
type EventEntry struct {
	Tick     int
	Category string
	Message  string
}

// EventLog is a ring buffer of recent session events rendered on-screen.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Add appends an entry to the log.
func (el *EventLog) Add(tick int, category, msg string) {
	el.entries[el.head] = EventEntry{
		Tick:     tick,
		Category: category,
		Message:  msg,
	}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Mirror is a SimLog sink that copies every entry into the event log.
func (el *EventLog) Mirror(e SimLogEntry) {
	msg := e.Key
	if e.Value != "" {
		msg += " " + e.Value
	}
	el.Add(e.Tick, e.Category, msg)
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Draw renders the event log panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 12, G: 12, B: 18, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 60, B: 90, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 24, G: 24, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 60, G: 60, B: 90, A: 200}, false)

	entries := el.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}

	visible := entries[startIdx:]
	recent := 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 32, G: 32, B: 48, A: 160}, false)
		}
		dot, ok := categoryColors[e.Category]
		if !ok {
			dot = color.RGBA{R: 120, G: 120, B: 120, A: 255}
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, dot, false)

		line := fmt.Sprintf("%5d %s", e.Tick, e.Message)
		if len(line) > 48 {
			line = line[:45] + "..."
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}
