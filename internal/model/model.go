// Package model defines the core marker and map entities shared by the
// build-time resolver and the live map engine.
package model

import "strings"

// Zoom and display defaults applied when a map declaration omits a field.
const (
	DefaultMinZoom   = 0.0
	DefaultMaxZoom   = 2.0
	DefaultZoomDelta = 0.5
	DefaultHeight    = 600.0
	DefaultScale     = 1.0
	DefaultUnit      = ""
)

// Coordinates is a position on a map's flat image plane. X grows to the
// right, Y grows downward, matching image pixel space.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarkerRecord is one resolved point of interest. Records are immutable
// once constructed; the registry hands out copies by value.
type MarkerRecord struct {
	DisplayName string      `json:"name" doc:"Title of the owning document"`
	TargetLink  string      `json:"link" doc:"Slug of the owning document"`
	Coordinates Coordinates `json:"coordinates"`
	Icon        string      `json:"icon" doc:"Icon identifier, e.g. fa:castle"`
	Color       string      `json:"color" doc:"Hex color without leading #"`
	MapName     string      `json:"mapName,omitempty" doc:"Empty means unassigned (shown on every map)"`
	MinZoom     *float64    `json:"minZoom,omitempty" doc:"Overrides the map's minZoom when set"`
}

// EffectiveMinZoom returns the marker's own threshold, or the hosting
// map's minZoom when the marker has none.
func (m MarkerRecord) EffectiveMinZoom(mapMinZoom float64) float64 {
	if m.MinZoom != nil {
		return *m.MinZoom
	}
	return mapMinZoom
}

// MapDeclaration is one renderable map region parsed from a document
// content block.
type MapDeclaration struct {
	Name        string  `json:"name,omitempty" doc:"Registry key for marker lookup"`
	Image       string  `json:"image" doc:"Image reference, resolved against the site asset set"`
	Height      float64 `json:"height"`
	MinZoom     float64 `json:"minZoom"`
	MaxZoom     float64 `json:"maxZoom"`
	DefaultZoom float64 `json:"defaultZoom"`
	ZoomDelta   float64 `json:"zoomDelta"`
	Scale       float64 `json:"scale"`
	Unit        string  `json:"unit"`
}

// NewMapDeclaration returns a declaration with all defaults applied.
func NewMapDeclaration() MapDeclaration {
	return MapDeclaration{
		Height:      DefaultHeight,
		MinZoom:     DefaultMinZoom,
		MaxZoom:     DefaultMaxZoom,
		DefaultZoom: DefaultMinZoom,
		ZoomDelta:   DefaultZoomDelta,
		Scale:       DefaultScale,
		Unit:        DefaultUnit,
	}
}

// ClampZoom enforces the zoom invariants: maxZoom never sinks below
// minZoom, and defaultZoom stays inside [minZoom, maxZoom].
func (d *MapDeclaration) ClampZoom() {
	if d.MaxZoom < d.MinZoom {
		d.MaxZoom = d.MinZoom
	}
	if d.DefaultZoom < d.MinZoom {
		d.DefaultZoom = d.MinZoom
	}
	if d.DefaultZoom > d.MaxZoom {
		d.DefaultZoom = d.MaxZoom
	}
}

// palette maps symbolic marker color names to hex values. Author input
// outside this set must already be a hex string.
var palette = map[string]string{
	"red":    "d63e2a",
	"orange": "f69730",
	"green":  "72b026",
	"blue":   "38aadd",
	"purple": "d252b9",
	"gold":   "ffca28",
	"cyan":   "436978",
	"white":  "fbfbfb",
	"gray":   "575757",
	"black":  "303030",
}

// PaletteColor resolves a symbolic color name to its hex value.
func PaletteColor(name string) (string, bool) {
	hex, ok := palette[strings.ToLower(name)]
	return hex, ok
}
