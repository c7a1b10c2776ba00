// Package frame tracks frame alignment from a sequence of classified gaps
//
// A receiver starts out of frame. It declares alignment after Acquire
// consecutive gaps at the expected period and loses it after Lose consecutive
// gaps off period. Anything in between keeps the current state.
package frame

import (
	"encoding/json"
	"fmt"

	"otnanalyzer/internal/core/scanner"
)

// State is the alignment state of a lane
type State uint8

const (
	OutOfFrame State = iota
	InFrame
)

func (s State) String() string {
	if s == InFrame {
		return "In Frame"
	}
	return "Out of Frame"
}

// Code is the two letter lane status used by lane rosters (IF / OF)
func (s State) Code() string {
	if s == InFrame {
		return "IF"
	}
	return "OF"
}

// MarshalJSON writes the display string
func (s State) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON accepts the display string or the lane code
func (s *State) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v {
	case "In Frame", "IF":
		*s = InFrame
	case "Out of Frame", "OF", "":
		*s = OutOfFrame
	default:
		return fmt.Errorf("frame: unknown state %q", v)
	}
	return nil
}

// Thresholds are consecutive gap counts
type Thresholds struct {
	Acquire int `json:"acquire"`
	Lose    int `json:"lose"`
}

// DefaultThresholds follows common frame alignment practice
func DefaultThresholds() Thresholds { return Thresholds{Acquire: 2, Lose: 5} }

func (t Thresholds) normalized() Thresholds {
	if t.Acquire < 1 {
		t.Acquire = 1
	}
	if t.Lose < 1 {
		t.Lose = 1
	}
	return t
}

// Status is the result of replaying gaps through the state machine
type Status struct {
	State       State `json:"state"`
	Transitions int   `json:"transitions"`
	// LastExpected is the Sequence of the last on-period gap, 0 if none
	LastExpected int `json:"last_expected"`
	// Run is the length of the trailing streak of same-kind gaps
	Run int `json:"run"`
}

// Track replays gaps from OutOfFrame and returns the final status
func Track(gaps []scanner.Gap, th Thresholds) Status {
	t := NewTracker(th)
	for _, g := range gaps {
		t.Observe(g)
	}
	return t.Status()
}

// Tracker is the incremental form of Track; not safe for concurrent use
type Tracker struct {
	th       Thresholds
	st       Status
	lastKind bool
}

// NewTracker returns a tracker in OutOfFrame
func NewTracker(th Thresholds) *Tracker { return &Tracker{th: th.normalized()} }

// Observe feeds one gap and returns the state after it
func (t *Tracker) Observe(g scanner.Gap) State {
	if t.st.Run == 0 || g.Expected != t.lastKind {
		t.st.Run = 0
		t.lastKind = g.Expected
	}
	t.st.Run++
	if g.Expected {
		t.st.LastExpected = g.Sequence
	}

	switch {
	case t.st.State == OutOfFrame && g.Expected && t.st.Run >= t.th.Acquire:
		t.st.State = InFrame
		t.st.Transitions++
	case t.st.State == InFrame && !g.Expected && t.st.Run >= t.th.Lose:
		t.st.State = OutOfFrame
		t.st.Transitions++
	}
	return t.st.State
}

// Status returns the current status
func (t *Tracker) Status() Status { return t.st }
