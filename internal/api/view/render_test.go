package view

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmaps/internal/engine"
	"docmaps/internal/model"
	"docmaps/internal/templates"
)

func TestRenderLive(t *testing.T) {
	r := templates.NewEmbedded()

	ds := model.MapDataset{
		Src: "/maps/town.png", Height: 400, MaxZoom: 2,
		DefaultZoom: 1, ZoomDelta: 0.5, Scale: 1, Unit: "m",
		Markers: []model.MarkerDataset{
			{Name: "Hall", Link: "/view/hall", Icon: "fa:landmark",
				Colour: "d63e2a", Coordinates: model.Coordinates{X: 10, Y: 20}},
		},
	}
	inst, err := engine.Bootstrap(context.Background(), ds, fixedProber{})
	require.NoError(t, err)

	base := sessionBase("abc-1", 0)
	html := renderLive(r, base, 0, inst)

	// Plane dimensions are image pixels scaled by 2^zoom.
	assert.Contains(t, html, `width: 200.0px`)
	assert.Contains(t, html, `height: 200.0px`)
	assert.Contains(t, html, `src="/maps/town.png"`)
	assert.Contains(t, html, base+"/click")
	assert.Contains(t, html, base+"/zoom/in")

	// Pin position follows the same factor, and pan makes pins links.
	assert.Contains(t, html, `left: 20.0px; top: 40.0px`)
	assert.Contains(t, html, `href="/view/hall"`)
}

func TestRenderLive_MeasureSelection(t *testing.T) {
	r := templates.NewEmbedded()
	ds := model.MapDataset{
		Src: "/m.png", Height: 100, MaxZoom: 2, ZoomDelta: 0.5, Scale: 1, Unit: "m",
		Markers: []model.MarkerDataset{
			{Name: "Hall", Link: "/view/hall", Coordinates: model.Coordinates{X: 1, Y: 1}},
		},
	}
	inst, err := engine.Bootstrap(context.Background(), ds, fixedProber{})
	require.NoError(t, err)
	require.NoError(t, inst.Control().Select("measure"))

	inst.Click(orb.Point{0, 0})
	inst.Click(orb.Point{3, 4})

	base := sessionBase("abc-2", 0)
	html := renderLive(r, base, 0, inst)

	// Pins lose navigation while a pointer tool owns clicks.
	assert.NotContains(t, html, `href="/view/hall"`)
	assert.Contains(t, html, `cursor: crosshair`)

	// The committed path and the live tooltip are in the overlay.
	assert.Contains(t, html, `class="measure-path"`)
	assert.Contains(t, html, `class="measure-tail"`)
	assert.Contains(t, html, "5.00 m")
	assert.Contains(t, html, base+"/tail")
}

func TestRenderOverlay_PinnedHidesRunningTooltip(t *testing.T) {
	r := templates.NewEmbedded()
	ds := model.MapDataset{Src: "/m.png", Height: 100, MaxZoom: 2, ZoomDelta: 0.5, Scale: 1, Unit: "m"}
	inst, err := engine.Bootstrap(context.Background(), ds, fixedProber{})
	require.NoError(t, err)
	require.NoError(t, inst.Control().Select("measure"))

	m := measureOf(inst)
	require.NotNil(t, m)
	m.OnMapClick(orb.Point{0, 0})
	m.OnMapClick(orb.Point{3, 4})
	m.OnTailClick()
	m.OnMapClick(orb.Point{9, 9}) // finalize

	html := renderOverlay(r, sessionBase("abc-3", 0), inst)
	assert.Contains(t, html, `class="measure-pinned"`)
	assert.NotContains(t, html, `class="measure-tooltip"`)
	assert.NotContains(t, html, `class="measure-tail"`)
}
