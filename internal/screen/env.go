package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/leads"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/report"
)

// Generator turns completed selections into a Result.
type Generator interface {
	Generate(ctx context.Context, sel quiz.Selections) (generation.Result, error)
}

// LeadLister lists recorded leads, newest first.
type LeadLister interface {
	All() []leads.Lead
}

// Env is what every screen shares: the session machine and the services
// behind it.
type Env struct {
	Ctx       context.Context
	Machine   *flow.Machine
	Generator Generator
	Leads     LeadLister

	// NewExporter returns a fresh exporter for each result shown, so the
	// webhook fires once per result.
	NewExporter func() *report.Exporter

	Logger zerolog.Logger
}

// GenerationDoneMsg carries a finished generation back to the update loop.
type GenerationDoneMsg struct {
	Seq    uint64
	Result generation.Result
	Err    error
}

// Generate runs job off the update loop.
func (e *Env) Generate(job flow.Job) tea.Cmd {
	return func() tea.Msg {
		res, err := e.Generator.Generate(e.Ctx, job.Selections)
		return GenerationDoneMsg{Seq: job.Seq, Result: res, Err: err}
	}
}
