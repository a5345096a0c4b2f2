package lunarvoyer

import (
	"fmt"
	"time"
)

// EventCategory defines an enum of mission event categories.
type EventCategory uint8

const (
	// BurnEvent marks an engine burn.
	BurnEvent EventCategory = iota + 1
	// HazardEvent marks a hazard encounter or expiry.
	HazardEvent
	// TransferEvent marks a transfer plan or its execution.
	TransferEvent
	// SystemEvent marks everything the simulation itself reports.
	SystemEvent
)

// String implements the Stringer interface.
func (c EventCategory) String() string {
	switch c {
	case BurnEvent:
		return "burn"
	case HazardEvent:
		return "hazard"
	case TransferEvent:
		return "transfer"
	case SystemEvent:
		return "system"
	default:
		panic("unknown event category")
	}
}

// MissionEvent records one noteworthy moment of a mission. ΔV is in m/s and
// stays zero for events which carry none.
type MissionEvent struct {
	DT       time.Time
	Category EventCategory
	Detail   string
	ΔV       float64
}

// String implements the Stringer interface.
func (e MissionEvent) String() string {
	if e.ΔV > 0 {
		return fmt.Sprintf("[%s] %s: %s (Δv=%.1f m/s)", e.DT.Format(time.RFC3339), e.Category, e.Detail, e.ΔV)
	}
	return fmt.Sprintf("[%s] %s: %s", e.DT.Format(time.RFC3339), e.Category, e.Detail)
}

// EventLog is the append-only history of a mission. Events are never mutated
// nor removed, short of a full reset.
type EventLog struct {
	events []MissionEvent
}

// Append records an event.
func (l *EventLog) Append(e MissionEvent) {
	l.events = append(l.events, e)
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// All returns a copy of the recorded events, oldest first.
func (l *EventLog) All() []MissionEvent {
	out := make([]MissionEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Reset clears the log for a fresh mission.
func (l *EventLog) Reset() {
	l.events = nil
}
