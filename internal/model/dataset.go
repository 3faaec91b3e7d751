package model

import "strconv"

// Dataset attribute names carried on rendered map fragments. They are a
// serialization contract between the resolver and the map engine: every
// field has a default so fragments rendered by older builds stay
// parseable when new attributes are added.
const (
	AttrSrc         = "data-src"
	AttrHeight      = "data-height"
	AttrMinZoom     = "data-min-zoom"
	AttrMaxZoom     = "data-max-zoom"
	AttrDefaultZoom = "data-default-zoom"
	AttrZoomDelta   = "data-zoom-delta"
	AttrScale       = "data-scale"
	AttrUnit        = "data-unit"

	AttrName        = "data-name"
	AttrLink        = "data-link"
	AttrCoordinates = "data-coordinates"
	AttrIcon        = "data-icon"
	AttrColour      = "data-colour"
)

// MapDataset is the map-level attribute set read back from a rendered
// fragment.
type MapDataset struct {
	Src         string
	Height      float64
	MinZoom     float64
	MaxZoom     float64
	DefaultZoom float64
	ZoomDelta   float64
	Scale       float64
	Unit        string
	Markers     []MarkerDataset
}

// MarkerDataset is one marker child's attribute set.
type MarkerDataset struct {
	Name        string
	Link        string
	Coordinates Coordinates
	Icon        string
	Colour      string
	MinZoom     float64
}

// Complete reports whether the dataset carries everything the engine
// needs to build a map instance.
func (d MapDataset) Complete() bool {
	return d.Src != "" && d.Height > 0 && d.ZoomDelta > 0 && d.Scale > 0
}

func attrFloat(attrs map[string]string, key string, fallback float64) float64 {
	s, ok := attrs[key]
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

// ParseMapDataset reads map-level attributes, applying the documented
// default for every absent or unparseable field.
func ParseMapDataset(attrs map[string]string) MapDataset {
	return MapDataset{
		Src:         attrs[AttrSrc],
		Height:      attrFloat(attrs, AttrHeight, DefaultHeight),
		MinZoom:     attrFloat(attrs, AttrMinZoom, DefaultMinZoom),
		MaxZoom:     attrFloat(attrs, AttrMaxZoom, DefaultMaxZoom),
		DefaultZoom: attrFloat(attrs, AttrDefaultZoom, DefaultMinZoom),
		ZoomDelta:   attrFloat(attrs, AttrZoomDelta, DefaultZoomDelta),
		Scale:       attrFloat(attrs, AttrScale, DefaultScale),
		Unit:        attrs[AttrUnit],
	}
}

// ParseMarkerDataset reads one marker child's attributes. The
// coordinate attribute is strict "x, y"; a malformed value drops the
// marker (ok=false) rather than producing a partial record.
func ParseMarkerDataset(attrs map[string]string, mapMinZoom float64) (MarkerDataset, bool) {
	coords, err := ParseCoordinates(attrs[AttrCoordinates])
	if err != nil {
		return MarkerDataset{}, false
	}
	return MarkerDataset{
		Name:        attrs[AttrName],
		Link:        attrs[AttrLink],
		Coordinates: coords,
		Icon:        attrs[AttrIcon],
		Colour:      attrs[AttrColour],
		MinZoom:     attrFloat(attrs, AttrMinZoom, mapMinZoom),
	}, true
}
