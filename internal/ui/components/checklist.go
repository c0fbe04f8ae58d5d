package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/ui/theme"
)

// ChecklistItem is one selectable row.
type ChecklistItem struct {
	Label   string
	Detail  string // shown under the label while checked
	Checked bool
}

// Checklist is a vertical list of toggleable items. It only moves the
// cursor; the owner applies toggles so its own state stays authoritative.
type Checklist struct {
	Items  []ChecklistItem
	Cursor int
	Radio  bool // render as single choice
}

// NewChecklist creates a checklist with the cursor on the first item.
func NewChecklist(items []ChecklistItem, radio bool) Checklist {
	return Checklist{Items: items, Radio: radio}
}

// Update moves the cursor. It returns the index of the item to toggle when
// space or x is pressed, otherwise -1. Digits 1-9 toggle an item directly.
func (c Checklist) Update(msg tea.Msg) (Checklist, int) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, -1
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		if len(c.Items) > 0 {
			return c, c.Cursor
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(c.Items) {
				c.Cursor = i
				return c, i
			}
		}
	}
	return c, -1
}

// View renders the list at the given width.
func (c Checklist) View(width int) string {
	var b strings.Builder
	for i, item := range c.Items {
		box := "[ ]"
		if c.Radio {
			box = "( )"
		}
		if item.Checked {
			box = "[✓]"
			if c.Radio {
				box = "(●)"
			}
		}

		pointer := "  "
		if i == c.Cursor {
			pointer = "▸ "
		}

		style := theme.Unselected
		switch {
		case item.Checked:
			style = theme.Selected
		case i == c.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		}
		b.WriteString(style.Render(pointer + box + " " + strings.ToUpper(item.Label)))
		b.WriteString("\n")

		if item.Checked && item.Detail != "" {
			// Width includes the left padding.
			detail := lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Italic(true).
				Width(width).
				PaddingLeft(8).
				Render(item.Detail)
			b.WriteString(detail)
			b.WriteString("\n")
		}
	}
	return b.String()
}
