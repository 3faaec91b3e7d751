package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"docmaps/internal/engine"
	"docmaps/internal/engine/tool"
	"docmaps/internal/templates"
)

// The engine's plane is 1:1 image pixels; the page shows it scaled by
// 2^zoom. All pixel values sent to the page go through this factor.
func zoomFactor(zoom float64) float64 {
	return math.Pow(2, zoom)
}

func px(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

type pinData struct {
	Name      string
	Link      string
	Icon      string
	Colour    string
	X, Y      string
	Clickable bool
}

type toolData struct {
	Name   string
	Label  string
	Active bool
}

type liveData struct {
	ID          int
	Base        string
	Src         string
	Cursor      string
	ViewHeight  string
	PlaneWidth  string
	PlaneHeight string
	Markers     []pinData
	Tools       []toolData
	Overlay     string
}

type overlayData struct {
	Base       string
	Points     string
	HasPreview bool
	PreviewX   string
	PreviewY   string
	HasTail    bool
	TailX      string
	TailY      string
	Tooltip    string
	Pinned     string
}

func sessionBase(sessionID string, ordinal int) string {
	return fmt.Sprintf("/api/v1/view/%s/maps/%d", sessionID, ordinal)
}

// measureOf finds the measure tool on an instance's control.
func measureOf(inst *engine.Instance) *tool.Measure {
	for _, t := range inst.Control().Tools() {
		if m, ok := t.(*tool.Measure); ok {
			return m
		}
	}
	return nil
}

// renderLive renders the full live map for one instance: the scaled
// plane, visible pins, the measurement overlay and the tool control.
func renderLive(r *templates.Renderer, base string, ordinal int, inst *engine.Instance) string {
	k := zoomFactor(inst.Zoom())
	bound := inst.Bound()

	data := liveData{
		ID:          ordinal,
		Base:        base,
		Src:         inst.Dataset().Src,
		Cursor:      inst.Cursor(),
		ViewHeight:  px(inst.Dataset().Height),
		PlaneWidth:  px(bound.Max[0] * k),
		PlaneHeight: px(bound.Max[1] * k),
		Overlay:     renderOverlay(r, base, inst),
	}

	// Pins navigate only while the pan tool is active; a pointer tool
	// owns clicks.
	clickable := true
	if sel := inst.Control().Selected(); sel != nil && sel.Name() != "pan" {
		clickable = false
	}
	for _, m := range inst.VisibleMarkers() {
		data.Markers = append(data.Markers, pinData{
			Name:      m.Name,
			Link:      m.Link,
			Icon:      m.Icon,
			Colour:    m.Colour,
			X:         px(m.Point[0] * k),
			Y:         px(m.Point[1] * k),
			Clickable: clickable,
		})
	}
	for _, t := range inst.Control().Tools() {
		data.Tools = append(data.Tools, toolData{
			Name:   t.Name(),
			Label:  t.Label(),
			Active: inst.Control().Selected() == t,
		})
	}
	return r.MustRender("map-live", data)
}

// renderOverlay renders the measurement visuals from the measure
// tool's current state, scaled to the page.
func renderOverlay(r *templates.Renderer, base string, inst *engine.Instance) string {
	m := measureOf(inst)
	if m == nil {
		return ""
	}
	k := zoomFactor(inst.Zoom())

	data := overlayData{Base: base}

	if path := m.Path(); len(path) > 1 {
		pts := make([]string, len(path))
		for i, p := range path {
			pts[i] = px(p[0]*k) + "," + px(p[1]*k)
		}
		data.Points = strings.Join(pts, " ")
	}
	if tail, ok := m.Tail(); ok {
		data.TailX = px(tail[0] * k)
		data.TailY = px(tail[1] * k)
	}
	if pinned, ok := m.Pinned(); ok {
		data.Pinned = pinned
	} else if _, ok := m.Tail(); ok {
		data.HasTail = true
		data.Tooltip = m.TooltipText()
	}
	if preview, ok := m.Preview(); ok {
		data.HasPreview = true
		data.PreviewX = px(preview[0] * k)
		data.PreviewY = px(preview[1] * k)
	}
	return r.MustRender("measure-overlay", data)
}
