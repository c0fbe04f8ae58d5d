// Package start is the name-entry screen that opens every session.
package start

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/components"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/layout"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

const (
	heading     = "Perfil & Identidade: A Base do Seu Novo Lar"
	prompt      = "Como podemos te chamar?"
	placeholder = "Seu Nome"
	startLabel  = "Começar"
	nameMissing = "Por favor, insira seu nome para começar."

	nameLimit = 60
)

// StartScreen asks for the user's name.
type StartScreen struct {
	env   *screen.Env
	input components.TextInput
}

var _ screen.Screen = (*StartScreen)(nil)
var _ screen.KeyHintProvider = (*StartScreen)(nil)

// New creates the start screen.
func New(env *screen.Env) *StartScreen {
	return &StartScreen{
		env:   env,
		input: components.NewTextInput(placeholder, nameLimit),
	}
}

func (s *StartScreen) Title() string { return "Início" }

func (s *StartScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *StartScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: startLabel},
		{Key: "Ctrl+D", Description: "Leads"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *StartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		s.submit()
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *StartScreen) submit() {
	err := s.env.Machine.Start(s.input.Value())
	switch {
	case err == nil:
		s.env.Logger.Info().Str("user", s.env.Machine.UserName()).Msg("session started")
	case errors.Is(err, flow.ErrNameRequired):
		s.input.SetError(nameMissing)
	default:
		s.env.Logger.Warn().Err(err).Msg("start rejected")
	}
}

func (s *StartScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := theme.Title.Width(cw).Render(heading)
	label := theme.Caps.Render(strings.ToUpper(prompt))

	body := lipgloss.JoinVertical(lipgloss.Left,
		label,
		"",
		s.input.View(),
		"",
		components.NewButton(startLabel, s.input.Value() != "").View(),
	)

	content := lipgloss.JoinVertical(lipgloss.Center,
		RenderBanner(width),
		"",
		title,
		"",
		components.Card(body, cw),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
