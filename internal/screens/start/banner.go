package start

import (
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

const bannerArt = `
 ╭──────────────────────────────────────╮
 │   R O S A     ✦     M E N T A        │
 │   arquitetura  ·  interiores         │
 ╰──────────────────────────────────────╯`

const bannerCompact = "R O S A  ✦  M E N T A"

// RenderBanner returns the brand banner. Terminals narrower than 44
// columns get the single-line form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 44 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
