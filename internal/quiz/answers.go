package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectionRequired is returned by Advance when the current step has
	// no selected option.
	ErrSelectionRequired = errors.New("at least one option must be selected")

	// ErrUnknownOption is returned by Toggle for an option ID that does not
	// belong to the step's question.
	ErrUnknownOption = errors.New("unknown option")

	// ErrStepOutOfRange is returned by Toggle for a step outside the catalog.
	ErrStepOutOfRange = errors.New("step out of range")
)

// AnswerStore holds per-step selections and the current step pointer.
// It is pure state and not safe for concurrent use.
type AnswerStore struct {
	questions  []Question
	current    int
	selections Selections
}

// NewAnswerStore creates an empty store for the given questions.
func NewAnswerStore(questions []Question) *AnswerStore {
	return &AnswerStore{
		questions:  questions,
		selections: make(Selections, len(questions)),
	}
}

// Len returns the number of steps.
func (s *AnswerStore) Len() int {
	return len(s.questions)
}

// Current returns the zero-based index of the current step.
func (s *AnswerStore) Current() int {
	return s.current
}

// Question returns the question at the current step.
func (s *AnswerStore) Question() Question {
	return s.questions[s.current]
}

// IsLast reports whether the current step is the final one.
func (s *AnswerStore) IsLast() bool {
	return s.current == len(s.questions)-1
}

// Toggle adds the option to the step's selections if absent, otherwise
// removes it. On a single-select question a new option replaces the
// existing selection.
func (s *AnswerStore) Toggle(step int, optionID string) error {
	if step < 0 || step >= len(s.questions) {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, step)
	}
	q := s.questions[step]
	opt, ok := q.Option(optionID)
	if !ok {
		return fmt.Errorf("%w: %q in question %d", ErrUnknownOption, optionID, q.ID)
	}

	current := s.selections[step]
	for i, o := range current {
		if o.ID == optionID {
			s.selections[step] = append(current[:i:i], current[i+1:]...)
			return nil
		}
	}

	if !q.Multiselect {
		s.selections[step] = []Option{opt}
		return nil
	}
	s.selections[step] = append(current, opt)
	return nil
}

// Selected reports whether optionID is selected at step.
func (s *AnswerStore) Selected(step int, optionID string) bool {
	if step < 0 || step >= len(s.selections) {
		return false
	}
	for _, o := range s.selections[step] {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// CanAdvance reports whether the current step has at least one selection.
func (s *AnswerStore) CanAdvance() bool {
	return len(s.selections[s.current]) > 0
}

// Advance moves to the next step. At the last step it does not move and
// reports done=true instead; that is the hand-off to generation.
func (s *AnswerStore) Advance() (done bool, err error) {
	if !s.CanAdvance() {
		return false, ErrSelectionRequired
	}
	if s.IsLast() {
		return true, nil
	}
	s.current++
	return false, nil
}

// Retreat moves to the previous step. No-op at the first step.
func (s *AnswerStore) Retreat() {
	if s.current > 0 {
		s.current--
	}
}

// Reset clears every selection and returns to the first step.
func (s *AnswerStore) Reset() {
	s.current = 0
	s.selections = make(Selections, len(s.questions))
}

// Selections returns a copy of all selections, one slice per step.
func (s *AnswerStore) Selections() Selections {
	out := make(Selections, len(s.selections))
	for i, step := range s.selections {
		out[i] = append([]Option(nil), step...)
	}
	return out
}

// Labels returns every selected label flattened in step order.
func (s *AnswerStore) Labels() []string {
	return s.Selections().Labels()
}

// Labels returns every selected label flattened in step order.
func (sel Selections) Labels() []string {
	var out []string
	for _, step := range sel {
		for _, o := range step {
			out = append(out, o.Label)
		}
	}
	return out
}
