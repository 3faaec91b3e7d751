package tool

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControl_AttachSelectsFirstTool(t *testing.T) {
	h := &fakeHost{}
	c := NewControl(NewPan(), NewMeasure())

	assert.Nil(t, c.Selected())
	c.Attach(h)
	require.NotNil(t, c.Selected())
	assert.Equal(t, "pan", c.Selected().Name())
}

func TestControl_SelectRunsDeselectedBeforeSelected(t *testing.T) {
	h := &fakeHost{}
	c := NewControl(NewPan(), NewMeasure())
	c.Attach(h)

	require.NoError(t, c.Select("measure"))
	assert.Equal(t, "measure", c.Selected().Name())
	assert.Equal(t, "crosshair", h.cursor)

	// Switching back clears what the measure tool acquired.
	require.NoError(t, c.Select("pan"))
	assert.Empty(t, h.cursor)
}

func TestControl_SelectSameToolIsNoOp(t *testing.T) {
	h := &fakeHost{}
	c := NewControl(NewPan(), NewMeasure())
	c.Attach(h)
	require.NoError(t, c.Select("measure"))

	repaints := h.repaints
	require.NoError(t, c.Select("measure"))
	assert.Equal(t, repaints, h.repaints)
	assert.Equal(t, "crosshair", h.cursor)
}

func TestControl_SelectUnknownTool(t *testing.T) {
	h := &fakeHost{}
	c := NewControl(NewPan())
	c.Attach(h)
	assert.Error(t, c.Select("teleport"))
	assert.Equal(t, "pan", c.Selected().Name())
}

func TestControl_SelectBeforeAttach(t *testing.T) {
	c := NewControl(NewPan())
	assert.Error(t, c.Select("pan"))
}

func TestControl_DetachIsIdempotent(t *testing.T) {
	h := &fakeHost{}
	c := NewControl(NewPan(), NewMeasure())
	c.Attach(h)
	require.NoError(t, c.Select("measure"))

	c.Detach()
	assert.Nil(t, c.Selected())
	assert.Empty(t, h.cursor)

	c.Detach()
	assert.Nil(t, c.Selected())
}

func TestControl_EventsReachSelectedToolOnly(t *testing.T) {
	h := &fakeHost{}
	pan := NewPan()
	measure := NewMeasure()
	c := NewControl(pan, measure)
	c.Attach(h)

	// Pan is selected: clicks do not reach the measure tool.
	c.MapClick(orb.Point{1, 1})
	assert.Empty(t, measure.Path())

	require.NoError(t, c.Select("measure"))
	c.MapClick(orb.Point{1, 1})
	assert.Len(t, measure.Path(), 1)
}
