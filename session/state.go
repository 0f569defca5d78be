package session

import "fmt"

// State is a step of the playback lifecycle.
type State int32

const (
	Decoding State = iota
	Resolving
	Starting
	Playing
	Stopping
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Decoding:
		return "Decoding"
	case Resolving:
		return "Resolving"
	case Starting:
		return "Starting"
	case Playing:
		return "Playing"
	case Stopping:
		return "Stopping"
	case Done:
		return "Done"
	case Aborted:
		return "Aborted"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == Done || s == Aborted
}
