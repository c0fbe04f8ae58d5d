// Package flow drives a quiz session from the name prompt through the
// generated result, independent of how it is presented.
package flow

import "fmt"

// State is a screen of the session.
type State int

const (
	StateStart State = iota
	StateQuiz
	StateLoading
	StateResult
	StateDashboard
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateQuiz:
		return "QUIZ"
	case StateLoading:
		return "LOADING"
	case StateResult:
		return "RESULT"
	case StateDashboard:
		return "DASHBOARD"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
