package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/gateway"
)

// agriplanHuhTheme returns a custom huh theme using the Gruvbox palette.
func agriplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmDelete asks for confirmation of a plain delete.
func confirmDelete(what string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", what)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(agriplanHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// confirmForceDelete lists the dependents that will be removed along
// with the record and asks for explicit confirmation.
func confirmForceDelete(what string, dependents []string) (bool, error) {
	desc := "This will also remove or detach:\n"
	for _, d := range dependents {
		desc += "  • " + d + "\n"
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Force delete %s?", what)).
				Description(desc).
				Affirmative("Force delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(agriplanHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// blockedUnitMessage renders the in-use warning for a unit.
func blockedUnitMessage(usage *gateway.UnitUsage) string {
	msg := formatter.Warn("This unit is in use:") + "\n"
	for _, part := range usage.Describe() {
		msg += "  • " + part + "\n"
	}
	msg += formatter.Dim("Re-run with --force to delete it together with its dependents.")
	return msg
}

func blockedIndicatorMessage(usage *gateway.IndicatorUsage) string {
	msg := formatter.Warn("This indicator is in use:") + "\n"
	for _, part := range usage.Describe() {
		msg += "  • " + part + "\n"
	}
	msg += formatter.Dim("Re-run with --force to delete it together with its dependents.")
	return msg
}
