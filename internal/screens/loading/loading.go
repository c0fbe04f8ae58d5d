// Package loading is shown while the profile is being generated.
package loading

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/components"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/layout"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

const (
	heading = "Alinhando Essência e Morar..."
	caption = "CONECTANDO ESTILO"

	tickInterval    = 100 * time.Millisecond
	messageInterval = 3 * time.Second
	progressStep    = 0.8
)

// Messages cycle under the heading while generation runs.
var Messages = []string{
	"Analisando sua essência...",
	"Curando referências visuais...",
	"Compondo seu mood board personalizado...",
	"Quase pronto, refinando detalhes...",
}

var sparkleFrames = []string{"✦", "✧", "★", "✧"}

// tickMsg is tagged with the screen that scheduled it, so ticks left over
// from an earlier loading screen die out instead of speeding up a new one.
type tickMsg struct {
	id   uint64
	time time.Time
}

var nextID atomic.Uint64

// LoadingScreen animates until the machine leaves the loading state. The
// progress is cosmetic and stops at 100 whether or not generation is done.
type LoadingScreen struct {
	id       uint64
	elapsed  time.Duration
	progress float64
	ticks    int
}

var _ screen.Screen = (*LoadingScreen)(nil)
var _ screen.KeyHintProvider = (*LoadingScreen)(nil)

// New creates the loading screen.
func New() *LoadingScreen {
	return &LoadingScreen{id: nextID.Add(1)}
}

func (s *LoadingScreen) Title() string { return "Gerando" }

func (s *LoadingScreen) Init() tea.Cmd { return s.tick() }

func (s *LoadingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Sair"}}
}

func (s *LoadingScreen) tick() tea.Cmd {
	id := s.id
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{id: id, time: t}
	})
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if t, ok := msg.(tickMsg); !ok || t.id != s.id {
		return s, nil
	}
	s.elapsed += tickInterval
	s.ticks++
	s.progress += progressStep
	if s.progress > 100 {
		s.progress = 100
	}
	return s, s.tick()
}

// Message returns the rotating status line for the elapsed time.
func (s *LoadingScreen) Message() string {
	i := int(s.elapsed/messageInterval) % len(Messages)
	return Messages[i]
}

// Progress returns the cosmetic progress in [0, 100].
func (s *LoadingScreen) Progress() float64 { return s.progress }

func (s *LoadingScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sparkle := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(sparkleFrames[s.ticks%len(sparkleFrames)])

	bar := components.NewProgressBar("", s.progress/100, false, cw-8).View()
	status := lipgloss.NewStyle().Width(cw - 8).Render(
		theme.Caps.Render(caption) +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("   %d%%", int(s.progress))),
	)

	content := lipgloss.JoinVertical(lipgloss.Center,
		sparkle,
		"",
		theme.Title.Render(heading),
		"",
		theme.Hint.Render(s.Message()),
		"",
		bar,
		status,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
