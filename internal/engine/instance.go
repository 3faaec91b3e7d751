// Package engine builds live map instances from rendered fragments: a
// bounded flat coordinate plane sized to the map image, zoom handling,
// marker visibility, and the tool control. One instance corresponds to
// one map fragment in one active page view.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb"

	"docmaps/internal/assets"
	"docmaps/internal/engine/tool"
	"docmaps/internal/model"
)

// zoomEps absorbs floating-point zoom-step drift at visibility
// thresholds: a marker shows strictly above minZoom - zoomEps, so
// drift smaller than the tolerance cannot hide it while a zoom a full
// step short of the threshold stays hidden.
const zoomEps = 1e-5

// ErrIncompleteDataset is returned when a fragment's attributes do not
// form a usable map dataset.
var ErrIncompleteDataset = errors.New("incomplete map dataset")

// Marker is one interactive marker inside an instance.
type Marker struct {
	model.MarkerDataset
	Point orb.Point
}

// Visible reports whether the marker shows at the given zoom.
func (m Marker) Visible(zoom float64) bool {
	return zoom > m.MinZoom-zoomEps
}

// Instance is one live map. Tool and cursor state have no locking of
// their own; every event delivery and every render that reads that
// state must run inside Do, which is how the HTTP layer serializes
// overlapping requests against the same map. The small mutex covers
// only zoom and the teardown flag.
type Instance struct {
	mu   sync.Mutex // guards zoom and torn
	evmu sync.Mutex // serializes tool events and the renders behind them

	dataset model.MapDataset
	bound   orb.Bound
	zoom    float64
	markers []Marker
	control *tool.Control

	cursor  string
	repaint func()
	torn    bool
}

// Bootstrap creates an instance from a parsed dataset. The image probe
// is the only blocking step; ctx cancels it. An incomplete dataset or a
// failed probe aborts just this map.
func Bootstrap(ctx context.Context, ds model.MapDataset, prober assets.Prober) (*Instance, error) {
	if !ds.Complete() {
		return nil, ErrIncompleteDataset
	}
	w, h, err := prober.Probe(ctx, ds.Src)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", ds.Src, err)
	}

	inst := &Instance{
		dataset: ds,
		bound: orb.Bound{
			Min: orb.Point{0, 0},
			Max: orb.Point{float64(w), float64(h)},
		},
		zoom:    ds.DefaultZoom,
		control: tool.NewControl(tool.NewPan(), tool.NewMeasure()),
	}
	for _, m := range ds.Markers {
		inst.markers = append(inst.markers, Marker{
			MarkerDataset: m,
			Point:         orb.Point{m.Coordinates.X, m.Coordinates.Y},
		})
	}
	inst.control.Attach(inst)
	return inst, nil
}

// Dataset returns the dataset the instance was built from.
func (i *Instance) Dataset() model.MapDataset {
	return i.dataset
}

// Bound returns the map's coordinate plane, sized 1:1 to the image's
// native pixels.
func (i *Instance) Bound() orb.Bound {
	return i.bound
}

// Zoom returns the current zoom level.
func (i *Instance) Zoom() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.zoom
}

// SetZoom clamps z into the declared range and applies it.
func (i *Instance) SetZoom(z float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if z < i.dataset.MinZoom {
		z = i.dataset.MinZoom
	}
	if z > i.dataset.MaxZoom {
		z = i.dataset.MaxZoom
	}
	i.zoom = z
}

// ZoomIn steps the zoom up by the declared granularity.
func (i *Instance) ZoomIn() { i.SetZoom(i.Zoom() + i.dataset.ZoomDelta) }

// ZoomOut steps the zoom down by the declared granularity.
func (i *Instance) ZoomOut() { i.SetZoom(i.Zoom() - i.dataset.ZoomDelta) }

// Markers returns all markers regardless of visibility.
func (i *Instance) Markers() []Marker {
	return i.markers
}

// VisibleMarkers returns the markers shown at the current zoom.
func (i *Instance) VisibleMarkers() []Marker {
	zoom := i.Zoom()
	var out []Marker
	for _, m := range i.markers {
		if m.Visible(zoom) {
			out = append(out, m)
		}
	}
	return out
}

// Control returns the tool control.
func (i *Instance) Control() *tool.Control {
	return i.control
}

// Do runs fn while holding the interaction lock. Callers wrap each
// event delivery together with the render reads that follow it, so an
// overlapping request observes either all of a prior event's effects
// or none of them.
func (i *Instance) Do(fn func()) {
	i.evmu.Lock()
	defer i.evmu.Unlock()
	fn()
}

// Click delivers a map click to the active tool. Call inside Do.
func (i *Instance) Click(p orb.Point) {
	i.control.MapClick(p)
}

// PointerMove delivers a pointer move to the active tool. Call inside
// Do.
func (i *Instance) PointerMove(p orb.Point) {
	i.control.PointerMove(p)
}

// OnRepaint registers the callback tools trigger when their visual
// state changes.
func (i *Instance) OnRepaint(fn func()) {
	i.repaint = fn
}

// Teardown detaches the tool control and marks the instance dead. It is
// idempotent; events arriving afterwards are ignored by the session.
// The detach takes the interaction lock so it cannot interleave with an
// in-flight event.
func (i *Instance) Teardown() {
	i.mu.Lock()
	if i.torn {
		i.mu.Unlock()
		return
	}
	i.torn = true
	i.mu.Unlock()

	i.evmu.Lock()
	i.control.Detach()
	i.evmu.Unlock()
}

// Torn reports whether the instance has been torn down.
func (i *Instance) Torn() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.torn
}

// tool.Host implementation

// Scale returns the declared measurement scale.
func (i *Instance) Scale() float64 { return i.dataset.Scale }

// Unit returns the declared measurement unit.
func (i *Instance) Unit() string { return i.dataset.Unit }

// SetCursor records a cursor override for the view layer to apply.
func (i *Instance) SetCursor(name string) {
	i.cursor = name
}

// ClearCursor removes the cursor override.
func (i *Instance) ClearCursor() {
	i.cursor = ""
}

// Cursor returns the active cursor override, if any.
func (i *Instance) Cursor() string { return i.cursor }

// Repaint forwards a tool repaint request to the registered callback.
func (i *Instance) Repaint() {
	if i.repaint != nil {
		i.repaint()
	}
}
