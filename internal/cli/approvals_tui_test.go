package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/ministry"
	"github.com/moa-plans/agriplan/internal/teatest"
)

// fakePlanService records bulk-approve calls and satisfies the rest of
// the interface with zero values.
type fakePlanService struct {
	ministry.PlanService

	approved [][]int64
	result   *ministry.BulkResult
	err      error
}

func (f *fakePlanService) BulkApprove(ctx context.Context, ids []int64) (*ministry.BulkResult, error) {
	f.approved = append(f.approved, ids)
	return f.result, f.err
}

func pendingPlans() []domain.AnnualPlan {
	return []domain.AnnualPlan{
		{ID: 11, Year: 2026, Unit: domain.Unit{Name: "Strategic Affairs"}, Status: domain.StatusSubmitted},
		{ID: 12, Year: 2026, Unit: domain.Unit{Name: "Crops Office"}, Status: domain.StatusSubmitted},
		{ID: 13, Year: 2026, Unit: domain.Unit{Name: "Livestock Office"}, Status: domain.StatusSubmitted},
	}
}

func TestApprovalPickerTogglesAndApproves(t *testing.T) {
	svc := &fakePlanService{result: &ministry.BulkResult{Approved: 2}}
	model := newApprovalModel(svc, pendingPlans())
	d := teatest.New(t, model)

	require.Contains(t, d.View(), "Strategic Affairs")

	// Select the first and third plans.
	d.PressKey(' ')
	d.PressDown()
	d.PressDown()
	d.PressKey(' ')
	d.PressKey('a')

	require.True(t, d.Quitting)
	require.Len(t, svc.approved, 1)
	require.Equal(t, []int64{11, 13}, svc.approved[0])
	require.NotNil(t, model.result)
	require.Equal(t, 2, model.result.Approved)
}

func TestApprovalPickerApproveWithNothingSelectedIsNoop(t *testing.T) {
	svc := &fakePlanService{}
	model := newApprovalModel(svc, pendingPlans())
	d := teatest.New(t, model)

	d.PressKey('a')

	require.False(t, d.Quitting)
	require.Empty(t, svc.approved)
}

func TestApprovalPickerQuitWithoutChanges(t *testing.T) {
	svc := &fakePlanService{}
	model := newApprovalModel(svc, pendingPlans())
	d := teatest.New(t, model)

	d.PressDown()
	d.PressKey('q')

	require.True(t, d.Quitting)
	require.Empty(t, svc.approved)
	require.Nil(t, model.result)
}

func TestApprovalPickerCursorStaysInBounds(t *testing.T) {
	svc := &fakePlanService{}
	model := newApprovalModel(svc, pendingPlans())
	d := teatest.New(t, model)

	d.PressUp()
	require.Equal(t, 0, model.cursor)

	for range 10 {
		d.PressDown()
	}
	require.Equal(t, 2, model.cursor)
}
