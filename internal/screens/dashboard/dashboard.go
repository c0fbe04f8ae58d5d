// Package dashboard lists the recorded leads.
package dashboard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/leads"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/components"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/layout"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

const (
	heading   = "Leads Rosa Menta"
	backLabel = "Voltar"
	empty     = "Aguardando novos perfis..."
	styles    = "Estilos Identificados:"

	// DateLayout matches the pt-BR short date and time.
	DateLayout = "02/01/2006 15:04"
)

// DashboardScreen shows every lead as a card, newest first.
type DashboardScreen struct {
	env    *screen.Env
	leads  []leads.Lead
	cursor int
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard with a snapshot of the ledger.
func New(env *screen.Env) *DashboardScreen {
	s := &DashboardScreen{env: env}
	if env.Leads != nil {
		s.leads = env.Leads.All()
	}
	return s
}

func (s *DashboardScreen) Title() string { return heading }

func (s *DashboardScreen) Init() tea.Cmd { return nil }

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Esc", Description: backLabel},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.leads)-1 {
			s.cursor++
		}
	case "esc", "q":
		s.env.Machine.ToggleDashboard()
	}
	return s, nil
}

// Card renders one lead.
func Card(l leads.Lead, width int, selected bool) string {
	meta := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	top := meta.Render(l.Timestamp.Local().Format(DateLayout)) + "   " + meta.Render("ID: "+l.ID)

	chips := make([]string, len(l.Answers))
	for i, a := range l.Answers {
		chips[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("· " + a)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		top,
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(strings.ToUpper(l.UserName)),
		lipgloss.NewStyle().Foreground(theme.Primary).Italic(true).Render(l.Result.ProfileName),
		"",
		theme.Caps.Render(styles),
		lipgloss.NewStyle().Width(width-6).Render(strings.Join(chips, "  ")),
	)

	border := theme.Border
	if selected {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width - 2).
		Padding(0, 2).
		Render(body)
}

func (s *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	title := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(heading),
		components.Rule(cw),
	)

	if len(s.leads) == 0 {
		msg := theme.Hint.Width(cw).Align(lipgloss.Center).Render(empty)
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", "", msg)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
	}

	// Render from the cursor down so the selected card is always visible.
	avail := height - lipgloss.Height(title) - 1
	var cards []string
	used := 0
	for i := s.cursor; i < len(s.leads); i++ {
		c := Card(s.leads[i], cw, i == s.cursor)
		h := lipgloss.Height(c)
		if used+h > avail && len(cards) > 0 {
			break
		}
		cards = append(cards, c)
		used += h
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, cards...)...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}
