package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/router"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/dashboard"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/loading"
	quizscreen "github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/result"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/start"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/layout"
)

// AppModel is the root Bubble Tea model. The flow machine decides which
// screen is active; screens only drive the machine.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	shown  flow.State
	width  int
	height int
}

func newAppModel(env *screen.Env) AppModel {
	state := env.Machine.State()
	return AppModel{
		env:    env,
		router: router.New(screenFor(env, state)),
		shown:  state,
	}
}

// screenFor builds the screen for a machine state.
func screenFor(env *screen.Env, state flow.State) screen.Screen {
	switch state {
	case flow.StateQuiz:
		return quizscreen.New(env)
	case flow.StateLoading:
		return loading.New()
	case flow.StateResult:
		return result.New(env)
	case flow.StateDashboard:
		return dashboard.New(env)
	}
	return start.New(env)
}

func (m AppModel) Init() tea.Cmd {
	if s := m.router.Active(); s != nil {
		return s.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+d":
			m.env.Machine.ToggleDashboard()
			return m.sync(nil)
		}

	case screen.GenerationDoneMsg:
		m.env.Machine.Complete(msg.Seq, msg.Result, msg.Err)
		return m.sync(nil)
	}

	cmd := m.router.Update(msg)
	return m.sync(cmd)
}

// sync swaps in the screen for the machine's state when it has changed.
func (m AppModel) sync(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	state := m.env.Machine.State()
	if state == m.shown {
		return m, cmd
	}
	m.env.Logger.Debug().Stringer("from", m.shown).Stringer("to", state).Msg("state changed")
	m.shown = state
	return m, tea.Batch(cmd, m.router.Reset(screenFor(m.env, state)))
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.env.Machine.UserName(), m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Sair"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(env *screen.Env) error {
	p := tea.NewProgram(newAppModel(env), tea.WithContext(env.Ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
