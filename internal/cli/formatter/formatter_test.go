package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moa-plans/agriplan/internal/domain"
)

func TestRenderTableAlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"ID", "NAME", "STATUS"},
		[][]string{
			{"1", "Crops Directorate", "APPROVED"},
			{"12", "Livestock", "DRAFT"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4, "header, separator, two rows")
	assert.Contains(t, lines[2], "Crops Directorate")
	assert.Contains(t, lines[3], "Livestock")
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderKVAlignsLabels(t *testing.T) {
	out := RenderKV([][2]string{
		{"Year", "2026"},
		{"Unit of measure", "tonnes"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2026")
	assert.Contains(t, lines[1], "tonnes")
}

func TestStatusBadgeCoversAllStatuses(t *testing.T) {
	for _, status := range []domain.WorkflowStatus{
		domain.StatusDraft,
		domain.StatusSubmitted,
		domain.StatusApproved,
		domain.StatusRejected,
	} {
		badge := StatusBadge(status)
		assert.Contains(t, badge, string(status))
	}
}

func TestFormatValueDropsTrailingZeroes(t *testing.T) {
	assert.Equal(t, "250", FormatValue(250))
	assert.Equal(t, "42.5", FormatValue(42.5))
}

func TestFormatOptional(t *testing.T) {
	v := 7.25
	assert.Contains(t, FormatOptional(&v), "7.25")
	assert.Contains(t, FormatOptional(nil), "—")
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Contains(t, FormatDate(&ts), "2026-03")
	assert.Contains(t, FormatDate(nil), "—")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	out := Truncate("a very long remark about wheat yields", 12)
	assert.True(t, strings.HasSuffix(out, "…"))
	assert.LessOrEqual(t, len([]rune(out)), 12)
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Strategic Affairs", RoleLabel(domain.RoleStrategicAffairs))
	assert.Equal(t, "CUSTOM", RoleLabel(domain.UserRole("CUSTOM")))
}
