package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Accent    = lipgloss.Color("#60A5FA") // Blue
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	Section = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	// Scanner state badges
	BadgeScanning = lipgloss.NewStyle().
			Background(Secondary).
			Foreground(Black).
			Bold(true).
			Padding(0, 1)

	BadgeIdle = lipgloss.NewStyle().
			Background(Muted).
			Foreground(White).
			Padding(0, 1)

	BadgeBusy = lipgloss.NewStyle().
			Background(Warning).
			Foreground(Black).
			Padding(0, 1)

	// Record rows
	RecordTime = lipgloss.NewStyle().
			Foreground(Muted)

	RecordText = lipgloss.NewStyle()

	RecordSession = lipgloss.NewStyle().
			Foreground(Accent)

	RecordSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpDisabled = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)
