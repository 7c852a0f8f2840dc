package entity

import "fmt"

// State is a step in an entity's lifecycle.
type State int

const (
	Unloaded State = iota
	Loading
	Ready // loaded, detached from the scene
	Showing
	Shown
	Hiding
)

var stateNames = [...]string{
	Unloaded: "unloaded",
	Loading:  "loading",
	Ready:    "ready",
	Showing:  "showing",
	Shown:    "shown",
	Hiding:   "hiding",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}
