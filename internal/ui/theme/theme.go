package theme

import (
	"charm.land/lipgloss/v2"
)

// Rosa Menta palette
var (
	MainPink  = lipgloss.Color("#F693A8")
	LightPink = lipgloss.Color("#F0C1C9")
	DustyRose = lipgloss.Color("#C0808D")
	OffWhite  = lipgloss.Color("#FFF4F8")
	MintGreen = lipgloss.Color("#6FBE98")
	SageGreen = lipgloss.Color("#A1C4B1")
	DarkGreen = lipgloss.Color("#2D4B3E")
	Cream     = lipgloss.Color("#F4F2ED")
	Black     = lipgloss.Color("#22201E")
)

// Roles
var (
	Primary   = MainPink
	Secondary = MintGreen
	Accent    = SageGreen
	Success   = MintGreen
	Error     = DustyRose
	Text      = OffWhite
	TextDim   = lipgloss.Color("#9A948C")
	BgCard    = DarkGreen
	Border    = lipgloss.Color("#4A5E54")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Caps renders the small spaced-out labels used for captions.
	Caps = lipgloss.NewStyle().
		Foreground(TextDim).
		Bold(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Warning = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Highlights for bracketed terms in the narrative.
var (
	HighlightPink = lipgloss.NewStyle().Foreground(MainPink).Bold(true)
	HighlightSage = lipgloss.NewStyle().Foreground(SageGreen).Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Black).
			Bold(true).
			Padding(0, 2)

	ButtonFinal = lipgloss.NewStyle().
			Background(MintGreen).
			Foreground(Black).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
