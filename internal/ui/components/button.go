package components

import (
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

// Button is a styled, non-interactive button label. Screens decide what a
// key press does; the button only reflects whether it is enabled.
type Button struct {
	Label   string
	Enabled bool
	Final   bool // rendered in the confirm colour
}

// NewButton creates a new button.
func NewButton(label string, enabled bool) Button {
	return Button{Label: label, Enabled: enabled}
}

// View renders the button.
func (b Button) View() string {
	label := " " + b.Label + " "
	switch {
	case !b.Enabled:
		return theme.ButtonInactive.Render(label)
	case b.Final:
		return theme.ButtonFinal.Render(label)
	}
	return theme.ButtonActive.Render(label)
}
