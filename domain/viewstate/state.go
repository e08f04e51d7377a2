// Package viewstate holds the small amount of interactive state a chart needs:
// which categories are visible and which one is under the pointer. Every
// transition is a pure function returning a new State.
package viewstate

import (
	"sort"

	"greenpulse/domain/series"
)

// State is the presentation-owned view state. The zero value has no categories;
// use New.
type State struct {
	visibility map[series.Category]bool
	hovered    series.Category
}

// New creates a state with every category of set visible and nothing hovered
func New(set series.CategorySet) State {
	vis := make(map[series.Category]bool, set.Len())
	for _, c := range set.Categories() {
		vis[c] = true
	}
	return State{visibility: vis}
}

// Visible reports whether c is known and visible
func (s State) Visible(c series.Category) bool {
	return s.visibility[c]
}

// Known reports whether c has a visibility entry
func (s State) Known(c series.Category) bool {
	_, ok := s.visibility[c]
	return ok
}

// Visibility returns a copy of the visibility map
func (s State) Visibility() map[series.Category]bool {
	out := make(map[series.Category]bool, len(s.visibility))
	for c, v := range s.visibility {
		out[c] = v
	}
	return out
}

// Hovered returns the hovered category, if any
func (s State) Hovered() (series.Category, bool) {
	return s.hovered, s.hovered != ""
}

func (s State) clone() State {
	return State{visibility: s.Visibility(), hovered: s.hovered}
}

// ToggleVisibility flips the visibility of c. Unknown categories leave the state
// unchanged.
func ToggleVisibility(s State, c series.Category) State {
	if !s.Known(c) {
		return s
	}
	next := s.clone()
	next.visibility[c] = !next.visibility[c]
	return next
}

// HoverEnter marks c as hovered. Unknown categories leave the state unchanged.
func HoverEnter(s State, c series.Category) State {
	if !s.Known(c) {
		return s
	}
	next := s.clone()
	next.hovered = c
	return next
}

// HoverLeave clears the hover selection
func HoverLeave(s State) State {
	next := s.clone()
	next.hovered = ""
	return next
}

// EventKind enumerates the user actions that change view state
type EventKind string

const (
	EventToggle     EventKind = "toggle"
	EventHoverEnter EventKind = "hover_enter"
	EventHoverLeave EventKind = "hover_leave"
)

// Event is one user action delivered by the host UI
type Event struct {
	Kind     EventKind       `json:"kind"`
	Category series.Category `json:"category,omitempty"`
}

// Apply dispatches e to the matching transition. Unrecognised kinds are no-ops.
func Apply(s State, e Event) State {
	switch e.Kind {
	case EventToggle:
		return ToggleVisibility(s, e.Category)
	case EventHoverEnter:
		return HoverEnter(s, e.Category)
	case EventHoverLeave:
		return HoverLeave(s)
	default:
		return s
	}
}

// Snapshot is the JSON form of a State
type Snapshot struct {
	Visibility map[series.Category]bool `json:"visibility"`
	Hovered    *series.Category         `json:"hovered"`
	Hidden     []series.Category        `json:"hidden"`
}

// Snapshot exports the state for serialization
func (s State) Snapshot() Snapshot {
	snap := Snapshot{Visibility: s.Visibility(), Hidden: []series.Category{}}
	if c, ok := s.Hovered(); ok {
		snap.Hovered = &c
	}
	for c, v := range s.visibility {
		if !v {
			snap.Hidden = append(snap.Hidden, c)
		}
	}
	sort.Slice(snap.Hidden, func(i, j int) bool { return snap.Hidden[i] < snap.Hidden[j] })
	return snap
}
