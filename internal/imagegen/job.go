package imagegen

import "fmt"

// Status is the lifecycle state of an image job.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusTimedOut  Status = "TIMED_OUT"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusTimedOut
}

func (s Status) rank() int {
	switch s {
	case StatusSubmitted:
		return 0
	case StatusPending:
		return 1
	default:
		return 2
	}
}

// Job tracks one submitted image generation task.
type Job struct {
	TaskID    string
	Status    Status
	ResultURL string

	// Polls counts status requests issued so far.
	Polls int
}

// transition moves the job forward. Terminal states are final and the
// status never moves backward; PENDING may repeat.
func (j *Job) transition(to Status) error {
	if j.Status.Terminal() {
		return fmt.Errorf("image job %s: already %s, cannot move to %s", j.TaskID, j.Status, to)
	}
	if to.rank() < j.Status.rank() {
		return fmt.Errorf("image job %s: cannot move back from %s to %s", j.TaskID, j.Status, to)
	}
	j.Status = to
	return nil
}

// Observer receives a copy of the job after every status change.
type Observer func(Job)
