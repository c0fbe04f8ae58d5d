// Package quiz renders one questionnaire step at a time.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/components"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/layout"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

const (
	multiBadge  = "Múltipla Escolha"
	backLabel   = "Voltar"
	nextLabel   = "Próximo"
	finishLabel = "Finalizar"
	pickOne     = "Selecione ao menos uma opção para continuar."
)

// QuizScreen shows the current step of the machine's answer store.
type QuizScreen struct {
	env    *screen.Env
	step   int
	cursor int
	errMsg string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen.
func New(env *screen.Env) *QuizScreen {
	return &QuizScreen{env: env, step: env.Machine.Answers().Current()}
}

func (s *QuizScreen) Title() string {
	a := s.env.Machine.Answers()
	return fmt.Sprintf("Questão %d/%d", a.Current()+1, a.Len())
}

func (s *QuizScreen) Init() tea.Cmd { return nil }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	a := s.env.Machine.Answers()
	next := nextLabel
	if a.IsLast() {
		next = finishLabel
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Espaço", Description: "Marcar"},
		{Key: "Enter", Description: next},
	}
	if a.Current() > 0 {
		hints = append(hints, layout.KeyHint{Key: "←", Description: backLabel})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Sair"})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "enter":
		return s, s.next()
	case "left", "h", "backspace", "b":
		if err := s.env.Machine.Back(); err != nil {
			s.env.Logger.Warn().Err(err).Msg("back rejected")
		}
		s.syncStep()
		return s, nil
	}

	list, toggled := s.checklist().Update(msg)
	s.cursor = list.Cursor
	if toggled >= 0 {
		q := s.env.Machine.Answers().Question()
		if err := s.env.Machine.Toggle(q.Options[toggled].ID); err != nil {
			s.env.Logger.Warn().Err(err).Msg("toggle rejected")
		}
		s.errMsg = ""
	}
	return s, nil
}

func (s *QuizScreen) next() tea.Cmd {
	job, done, err := s.env.Machine.Next()
	switch {
	case errors.Is(err, quiz.ErrSelectionRequired):
		s.errMsg = pickOne
		return nil
	case err != nil:
		s.env.Logger.Warn().Err(err).Msg("next rejected")
		return nil
	case done:
		return s.env.Generate(job)
	}
	s.syncStep()
	return nil
}

// syncStep resets the cursor whenever the store moved to another step.
func (s *QuizScreen) syncStep() {
	if cur := s.env.Machine.Answers().Current(); cur != s.step {
		s.step = cur
		s.cursor = 0
		s.errMsg = ""
	}
}

func (s *QuizScreen) checklist() components.Checklist {
	a := s.env.Machine.Answers()
	q := a.Question()
	items := make([]components.ChecklistItem, len(q.Options))
	for i, o := range q.Options {
		items[i] = components.ChecklistItem{
			Label:   o.Label,
			Detail:  o.StyleProfile,
			Checked: a.Selected(a.Current(), o.ID),
		}
	}
	list := components.NewChecklist(items, !q.Multiselect)
	list.Cursor = s.cursor
	return list
}

// splitTitle turns "1. Paleta de Cores: Qual base..." into the question
// heading and its numbered topic.
func splitTitle(title string) (heading, topic string) {
	before, after, ok := strings.Cut(title, ":")
	if !ok {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(after), strings.TrimSpace(before)
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	a := s.env.Machine.Answers()
	q := a.Question()
	heading, topic := splitTitle(q.Title)

	progress := components.NewProgressBar(
		fmt.Sprintf("QUESTÃO %d/%d", a.Current()+1, a.Len()),
		float64(a.Current()+1)/float64(a.Len()),
		false,
		cw,
	).View()

	var parts []string
	parts = append(parts, progress, "")
	if q.Multiselect {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.Black).
			Background(theme.Accent).
			Padding(0, 1).
			Render(strings.ToUpper(multiBadge)))
	}
	parts = append(parts,
		theme.Title.Width(cw-6).Align(lipgloss.Left).Render(heading),
	)
	if topic != "" {
		parts = append(parts, theme.Subtitle.Align(lipgloss.Left).Render(topic))
	}
	parts = append(parts, components.Rule(cw-6), "", s.checklist().View(cw-6))

	if s.errMsg != "" {
		parts = append(parts, theme.Warning.Render(s.errMsg))
	}

	nextBtn := components.NewButton(nextLabel, a.CanAdvance())
	if a.IsLast() {
		nextBtn = components.NewButton(finishLabel, a.CanAdvance())
		nextBtn.Final = true
	}
	buttons := nextBtn.View()
	if a.Current() > 0 {
		buttons = lipgloss.JoinHorizontal(lipgloss.Center,
			components.NewButton(backLabel, false).View(), "  ", buttons)
	}
	parts = append(parts, "", buttons)

	card := components.Card(lipgloss.JoinVertical(lipgloss.Left, parts...), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
