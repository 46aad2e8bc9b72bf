package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moa-plans/agriplan/internal/cli/formatter"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/ministry"
)

// approvalDoneMsg signals that the bulk decision finished.
type approvalDoneMsg struct {
	result *ministry.BulkResult
	err    error
}

// approvalModel is the bubbletea model behind `dashboard pending`: a
// checklist of submitted plans with a bulk approve action.
type approvalModel struct {
	plans    []domain.AnnualPlan
	selected map[int]bool
	cursor   int

	svc     ministry.PlanService
	working bool

	result *ministry.BulkResult
	err    error
	done   bool
}

func newApprovalModel(svc ministry.PlanService, plans []domain.AnnualPlan) *approvalModel {
	return &approvalModel{
		plans:    plans,
		selected: make(map[int]bool),
		svc:      svc,
	}
}

func (m *approvalModel) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve selected")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (m *approvalModel) Init() tea.Cmd { return nil }

func (m *approvalModel) approveSelected() tea.Cmd {
	ids := make([]int64, 0, len(m.selected))
	for i, p := range m.plans {
		if m.selected[i] {
			ids = append(ids, p.ID)
		}
	}
	svc := m.svc
	return func() tea.Msg {
		res, err := svc.BulkApprove(context.Background(), ids)
		return approvalDoneMsg{result: res, err: err}
	}
}

func (m *approvalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case approvalDoneMsg:
		m.working = false
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if m.working {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.plans)-1 {
				m.cursor++
			}
		case " ", "x":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a", "enter":
			if len(m.selectedIndexes()) > 0 {
				m.working = true
				return m, m.approveSelected()
			}
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *approvalModel) selectedIndexes() []int {
	var idx []int
	for i := range m.plans {
		if m.selected[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *approvalModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Header("Pending approvals") + "\n\n")

	if m.working {
		b.WriteString("  " + formatter.Dim("Approving...") + "\n")
		return b.String()
	}

	for i, p := range m.plans {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		check := formatter.Dim("[ ]")
		if m.selected[i] {
			check = formatter.StyleGreen.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("%s%s %-5d %d  %s  %s\n",
			cursor, check, p.ID, p.Year,
			formatter.StyleBold.Render(padRight(p.Unit.Name, 28)),
			formatter.Dim(p.CreatedBy.FullName()),
		))
	}

	b.WriteString("\n  ")
	parts := make([]string, 0, 3)
	for _, kb := range m.ShortHelp() {
		parts = append(parts, formatter.Dim(kb.Help().Key+" "+kb.Help().Desc))
	}
	b.WriteString(strings.Join(parts, formatter.Dim("  ·  ")))
	b.WriteString("\n")
	return b.String()
}

// padRight pads a string to a minimum width, truncating if needed.
func padRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}

func runApprovalPicker(ctx context.Context, app *App, plans []domain.AnnualPlan) error {
	model := newApprovalModel(app.Plans, plans)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return err
	}

	out := app.out()
	switch {
	case model.err != nil:
		return model.err
	case model.result != nil:
		fmt.Fprintf(out, "Approved %d plan(s)\n", model.result.Approved)
		if model.result.Skipped > 0 {
			fmt.Fprintln(out, formatter.Warn(fmt.Sprintf("Skipped %d plan(s)", model.result.Skipped)))
		}
	default:
		fmt.Fprintln(out, "No changes made.")
	}
	return nil
}
