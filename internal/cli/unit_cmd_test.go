package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/ministry"
)

// fakeUnitService serves one unit and records update inputs.
type fakeUnitService struct {
	ministry.UnitService

	unit    domain.Unit
	updates []ministry.UnitInput
}

func (f *fakeUnitService) Get(ctx context.Context, id int64) (*domain.Unit, error) {
	u := f.unit
	return &u, nil
}

func (f *fakeUnitService) Update(ctx context.Context, id int64, in ministry.UnitInput) (*domain.Unit, error) {
	f.updates = append(f.updates, in)
	u := f.unit
	u.Name = in.Name
	return &u, nil
}

func runUnitCommand(t *testing.T, svc ministry.UnitService, args ...string) {
	t.Helper()
	app := &App{Units: svc, Out: &bytes.Buffer{}}
	root := NewRootCmd(app)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
}

func TestUnitUpdateKeepsUnchangedFields(t *testing.T) {
	parent := int64(3)
	svc := &fakeUnitService{unit: domain.Unit{
		ID: 5, Name: "Crops Office", Type: domain.UnitStateMinister, ParentID: &parent,
	}}

	runUnitCommand(t, svc, "unit", "update", "5", "--type", "ADVISOR")

	require.Len(t, svc.updates, 1)
	in := svc.updates[0]
	assert.Equal(t, "Crops Office", in.Name, "omitted name must carry over")
	assert.Equal(t, domain.UnitAdvisor, in.Type)
	require.NotNil(t, in.ParentID)
	assert.Equal(t, parent, *in.ParentID, "omitted parent must carry over")
}

func TestUnitUpdateDetachesParentWithZero(t *testing.T) {
	parent := int64(3)
	svc := &fakeUnitService{unit: domain.Unit{
		ID: 5, Name: "Crops Office", Type: domain.UnitStateMinister, ParentID: &parent,
	}}

	runUnitCommand(t, svc, "unit", "update", "5", "--parent", "0")

	require.Len(t, svc.updates, 1)
	assert.Nil(t, svc.updates[0].ParentID, "--parent 0 promotes the unit to a root office")
	assert.Equal(t, domain.UnitStateMinister, svc.updates[0].Type)
}

func TestUnitUpdateRenameOnly(t *testing.T) {
	svc := &fakeUnitService{unit: domain.Unit{
		ID: 5, Name: "Crops Office", Type: domain.UnitStateMinister,
	}}

	runUnitCommand(t, svc, "unit", "update", "5", "--name", "Crop Development Office")

	require.Len(t, svc.updates, 1)
	in := svc.updates[0]
	assert.Equal(t, "Crop Development Office", in.Name)
	assert.Equal(t, domain.UnitStateMinister, in.Type, "omitted type must carry over")
	assert.Nil(t, in.ParentID)
}
