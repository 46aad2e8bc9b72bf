package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moa-plans/agriplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the style for a workflow status.
func StatusStyle(status domain.WorkflowStatus) lipgloss.Style {
	switch status {
	case domain.StatusApproved:
		return StyleGreen
	case domain.StatusSubmitted:
		return StyleYellow
	case domain.StatusRejected:
		return StyleRed
	case domain.StatusDraft:
		return StyleBlue
	default:
		return StyleDim
	}
}

// StatusBadge returns a colored status indicator such as "● APPROVED".
func StatusBadge(status domain.WorkflowStatus) string {
	return StatusStyle(status).Render("● " + string(status))
}

// RoleLabel returns the display name for a planning role.
func RoleLabel(role domain.UserRole) string {
	switch role {
	case domain.RoleSuperadmin:
		return "Super Administrator"
	case domain.RoleStrategicAffairs:
		return "Strategic Affairs"
	case domain.RoleStateMinister:
		return "State Minister"
	case domain.RoleAdvisor:
		return "Advisor"
	default:
		return string(role)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warn renders text in the warning color.
func Warn(text string) string {
	return StyleYellow.Render(text)
}

// Fail renders text in the error color.
func Fail(text string) string {
	return StyleRed.Render(text)
}

// OK renders text in the success color.
func OK(text string) string {
	return StyleGreen.Render(text)
}
