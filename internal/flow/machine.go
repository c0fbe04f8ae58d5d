package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/leads"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
)

var (
	// ErrNameRequired is returned by Start for a blank name.
	ErrNameRequired = errors.New("por favor, insira seu nome para começar")

	// ErrInvalidTransition is returned when an action does not apply to
	// the current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNoResult is returned by RecordLead before a result exists.
	ErrNoResult = errors.New("no result to record")
)

// LeadRecorder persists completed sessions.
type LeadRecorder interface {
	Append(ctx context.Context, lead leads.Lead) (leads.Lead, error)
}

// Job is a generation request handed out when the last step is confirmed.
// Seq identifies it so a late completion can be told apart from the
// current one.
type Job struct {
	Seq        uint64
	UserName   string
	Selections quiz.Selections
}

// Machine is the session state machine. It is not safe for concurrent use;
// the caller serialises events (the TUI does so through its update loop).
type Machine struct {
	state   State
	name    string
	answers *quiz.AnswerStore
	result  *generation.Result
	seq     uint64

	ledger LeadRecorder
	logger zerolog.Logger
}

// New creates a Machine over the given questions, starting at StateStart.
func New(questions []quiz.Question, ledger LeadRecorder, logger zerolog.Logger) *Machine {
	return &Machine{
		state:   StateStart,
		answers: quiz.NewAnswerStore(questions),
		ledger:  ledger,
		logger:  logger.With().Str("component", "flow").Logger(),
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// UserName returns the name given at Start.
func (m *Machine) UserName() string { return m.name }

// Answers exposes the answer store for display.
func (m *Machine) Answers() *quiz.AnswerStore { return m.answers }

// Result returns the result of the latest completed generation.
func (m *Machine) Result() (generation.Result, bool) {
	if m.result == nil {
		return generation.Result{}, false
	}
	return *m.result, true
}

// Start records the user's name and enters the quiz.
func (m *Machine) Start(name string) error {
	if m.state != StateStart {
		return m.invalid("start")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	m.name = name
	m.answers.Reset()
	m.state = StateQuiz
	return nil
}

// Toggle flips an option on the current step.
func (m *Machine) Toggle(optionID string) error {
	if m.state != StateQuiz {
		return m.invalid("toggle")
	}
	return m.answers.Toggle(m.answers.Current(), optionID)
}

// Next confirms the current step. On the last step it moves to
// StateLoading and returns the generation job with done set.
func (m *Machine) Next() (job Job, done bool, err error) {
	if m.state != StateQuiz {
		return Job{}, false, m.invalid("next")
	}
	done, err = m.answers.Advance()
	if err != nil || !done {
		return Job{}, false, err
	}

	m.seq++
	m.state = StateLoading
	m.logger.Info().Uint64("seq", m.seq).Str("user", m.name).Msg("generation requested")
	return Job{Seq: m.seq, UserName: m.name, Selections: m.answers.Selections()}, true, nil
}

// Back returns to the previous step. No-op on the first step.
func (m *Machine) Back() error {
	if m.state != StateQuiz {
		return m.invalid("back")
	}
	m.answers.Retreat()
	return nil
}

// Complete delivers the outcome of job seq. It reports false, changing
// nothing, when seq is not the pending generation. A non-nil err is
// logged; the result is shown either way.
func (m *Machine) Complete(seq uint64, result generation.Result, err error) bool {
	if m.state != StateLoading || seq != m.seq {
		m.logger.Debug().Uint64("seq", seq).Uint64("current", m.seq).Stringer("state", m.state).Msg("ignoring stale completion")
		return false
	}
	if err != nil {
		m.logger.Warn().Err(err).Uint64("seq", seq).Msg("generation completed with failure")
	}
	m.result = &result
	m.state = StateResult
	return true
}

// Restart clears the session and returns to StateStart. A generation still
// in flight becomes stale.
func (m *Machine) Restart() {
	m.name = ""
	m.answers.Reset()
	m.result = nil
	m.seq++
	m.state = StateStart
}

// ToggleDashboard enters the lead dashboard, or leaves it for StateStart.
func (m *Machine) ToggleDashboard() {
	if m.state == StateDashboard {
		m.state = StateStart
		return
	}
	m.state = StateDashboard
}

// RecordLead appends the session with result to the ledger. It is called
// after a report has been shared.
func (m *Machine) RecordLead(ctx context.Context, result generation.Result) (leads.Lead, error) {
	if m.result == nil {
		return leads.Lead{}, ErrNoResult
	}
	if m.ledger == nil {
		return leads.Lead{}, fmt.Errorf("record lead: no ledger configured")
	}
	lead, err := m.ledger.Append(ctx, leads.Lead{
		UserName: m.name,
		Answers:  m.answers.Labels(),
		Result:   result,
	})
	if err != nil {
		return leads.Lead{}, fmt.Errorf("record lead: %w", err)
	}
	return lead, nil
}

func (m *Machine) invalid(action string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, action, m.state)
}
