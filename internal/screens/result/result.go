// Package result shows the generated profile and its export actions.
package result

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/report"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/components"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/layout"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

const (
	tagline = "IDENTIDADE & MORAR"

	shareLabel     = "Enviar para Arquiteta"
	sentLabel      = "Enviado para Arquiteta"
	busyLabel      = "Gerando Relatório..."
	downloadLabel  = "Baixar PDF (Imagem + Texto)"
	imageLabel     = "Ver Mood Board"
	restartLabel   = "Refazer Quiz"
	shareFailed    = "Houve um erro ao gerar o resultado. Tente novamente."
	downloadFailed = "Houve um erro ao gerar o PDF. Tente novamente."
	imageFailed    = "Não foi possível abrir a imagem."
	savedPrefix    = "PDF salvo em "
	sharedNative   = "Relatório enviado!"
)

const (
	itemShare = iota
	itemDownload
	itemImage
	itemRestart
)

// exportDoneMsg carries a finished export back to the screen.
type exportDoneMsg struct {
	mode    report.Mode
	outcome report.Outcome
	err     error
}

type openFailedMsg struct{ err error }

// ResultScreen renders the profile and drives the exporter. It holds one
// exporter for its lifetime so the webhook fires once per result.
type ResultScreen struct {
	env      *screen.Env
	result   generation.Result
	exporter *report.Exporter
	menu     components.Menu

	busy   bool
	sent   bool
	notice string
	errMsg string
	link   string
	scroll int
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates the result screen for the machine's current result.
func New(env *screen.Env) *ResultScreen {
	res, _ := env.Machine.Result()
	s := &ResultScreen{env: env, result: res}
	if env.NewExporter != nil {
		s.exporter = env.NewExporter()
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: shareLabel, Action: func() tea.Cmd { return s.export(report.ModeShare) }},
		{Label: downloadLabel, Action: func() tea.Cmd { return s.export(report.ModeDownload) }},
		{Label: imageLabel, Action: s.openImage},
		{Label: restartLabel, Action: s.restart},
	})
	return s
}

func (s *ResultScreen) Title() string { return s.result.ProfileName }

func (s *ResultScreen) Init() tea.Cmd { return nil }

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{{Key: "…", Description: busyLabel}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "PgUp/PgDn", Description: "Rolar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *ResultScreen) report() report.Report {
	return report.Report{
		UserName: s.env.Machine.UserName(),
		Result:   s.result,
		Answers:  s.env.Machine.Answers().Labels(),
	}
}

func (s *ResultScreen) export(mode report.Mode) tea.Cmd {
	if s.busy {
		return nil
	}
	if s.exporter == nil {
		s.errMsg = downloadFailed
		return nil
	}
	s.busy = true
	s.errMsg = ""
	s.notice = ""
	if mode == report.ModeShare {
		s.menu.SetLabel(itemShare, busyLabel)
	}

	rep := s.report()
	ctx := s.env.Ctx
	exp := s.exporter
	return func() tea.Msg {
		out, err := exp.ExportAndShare(ctx, rep, mode)
		return exportDoneMsg{mode: mode, outcome: out, err: err}
	}
}

func (s *ResultScreen) openImage() tea.Cmd {
	url := s.result.ImageURL
	return func() tea.Msg {
		if err := report.OpenInBrowser(url); err != nil {
			return openFailedMsg{err: err}
		}
		return nil
	}
}

func (s *ResultScreen) restart() tea.Cmd {
	s.env.Logger.Info().Msg("quiz restarted")
	s.env.Machine.Restart()
	return nil
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		s.handleExport(msg)
		return s, nil

	case openFailedMsg:
		s.env.Logger.Warn().Err(msg.err).Msg("open image failed")
		s.errMsg = imageFailed
		return s, nil

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "pgdown", "ctrl+f":
			s.scroll += 5
			return s, nil
		case "pgup", "ctrl+b":
			s.scroll -= 5
			if s.scroll < 0 {
				s.scroll = 0
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultScreen) handleExport(msg exportDoneMsg) {
	s.busy = false
	if msg.err != nil {
		s.env.Logger.Error().Err(msg.err).Stringer("mode", msg.mode).Msg("export failed")
		if msg.mode == report.ModeShare {
			s.errMsg = shareFailed
			s.menu.SetLabel(itemShare, s.shareLabel())
		} else {
			s.errMsg = downloadFailed
		}
		return
	}

	out := msg.outcome
	switch {
	case out.Message != "":
		s.notice = out.Message
	case out.Path != "":
		s.notice = savedPrefix + out.Path
	default:
		s.notice = sharedNative
	}
	s.link = out.DeepLink

	if msg.mode != report.ModeShare {
		return
	}
	s.sent = true
	s.menu.SetLabel(itemShare, s.shareLabel())
	if _, err := s.env.Machine.RecordLead(s.env.Ctx, s.result); err != nil {
		s.env.Logger.Error().Err(err).Msg("record lead failed")
	}
}

func (s *ResultScreen) shareLabel() string {
	if s.sent {
		return sentLabel
	}
	return shareLabel
}

// Body renders the analysis paragraphs with their highlighted terms.
func Body(text string, width int) string {
	var paras []string
	for _, p := range report.Paragraphs(text) {
		var b strings.Builder
		for _, seg := range report.Segments(p) {
			switch seg.Accent {
			case report.AccentPink:
				b.WriteString(theme.HighlightPink.Render(seg.Text))
			case report.AccentSage:
				b.WriteString(theme.HighlightSage.Render(seg.Text))
			default:
				b.WriteString(theme.Body.Render(seg.Text))
			}
		}
		paras = append(paras, lipgloss.NewStyle().Width(width).Render(b.String()))
	}
	return strings.Join(paras, "\n\n")
}

func (s *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	inner := cw - 6

	header := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Width(cw).Italic(true).Render(s.result.ProfileName),
		theme.Caps.Width(cw).Align(lipgloss.Center).Render(tagline),
	)

	image := lipgloss.JoinVertical(lipgloss.Left,
		theme.Caps.Render("✦ MOOD BOARD"),
		lipgloss.NewStyle().Foreground(theme.Accent).Underline(true).Width(inner).Render(s.result.ImageURL),
	)

	text := components.Card(lipgloss.JoinVertical(lipgloss.Left,
		image,
		"",
		Body(s.result.AnalysisText, inner),
	), cw)

	var status []string
	if s.notice != "" {
		status = append(status, lipgloss.NewStyle().Foreground(theme.Success).Width(cw).Render(s.notice))
	}
	if s.link != "" {
		status = append(status, theme.Hint.Width(cw).Render(s.link))
	}
	if s.errMsg != "" {
		status = append(status, theme.Warning.Width(cw).Render(s.errMsg))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", text)
	actions := lipgloss.JoinVertical(lipgloss.Left, append([]string{s.menu.View()}, status...)...)

	// Actions stay pinned; the profile text scrolls above them.
	avail := height - lipgloss.Height(actions) - 1
	body = window(body, s.clampScroll(body, avail), avail)

	content := lipgloss.JoinVertical(lipgloss.Left, body, "", actions)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (s *ResultScreen) clampScroll(body string, avail int) int {
	limit := lipgloss.Height(body) - avail
	if limit < 0 {
		limit = 0
	}
	if s.scroll > limit {
		s.scroll = limit
	}
	return s.scroll
}

func window(text string, offset, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if offset > len(lines) {
		offset = len(lines)
	}
	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}
