// Package validate holds the predicate checks applied to author input
// before it is converted into typed marker and map entities. The
// functions are pure and total: any value, including nil, yields a
// plain true/false with no side effects.
package validate

import (
	"math"
	"regexp"

	"docmaps/internal/model"
)

var (
	// Marker coordinates: "<int>,<int>", whitespace-tolerant, optional sign.
	coordinatesRe = regexp.MustCompile(`^\s*-?\d+\s*,\s*-?\d+\s*$`)

	// Icon identifiers: word(-word)* with an optional namespace prefix.
	iconRe = regexp.MustCompile(`^(?:[a-zA-Z0-9]+:)?[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*$`)

	// Hex colors: exactly 3 or 6 digits, case-insensitive, no leading #.
	hexColorRe = regexp.MustCompile(`^(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Marker reports whether v is a well-formed marker declaration. A
// marker needs valid coordinates and a valid icon; colour, mapName and
// minZoom are optional but must be well-formed when present. One bad
// field rejects the whole marker.
func Marker(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return false
	}
	coords, ok := m["coordinates"].(string)
	if !ok || !coordinatesRe.MatchString(coords) {
		return false
	}
	icon, ok := m["icon"].(string)
	if !ok || !iconRe.MatchString(icon) {
		return false
	}
	if c, present := colourOf(m); present && !Colour(c) {
		return false
	}
	if name, present := m["mapName"]; present {
		if _, ok := name.(string); !ok {
			return false
		}
	}
	if mz, present := m["minZoom"]; present && !finiteNumber(mz) {
		return false
	}
	return true
}

// Map reports whether v is a well-formed map declaration. Only the
// image reference is required; the numeric display parameters are
// validated independently when present.
func Map(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return false
	}
	image, ok := m["image"].(string)
	if !ok || image == "" {
		return false
	}
	for _, key := range []string{"minZoom", "maxZoom", "defaultZoom", "scale"} {
		if f, present := m[key]; present && !finiteNumber(f) {
			return false
		}
	}
	for _, key := range []string{"height", "zoomDelta"} {
		if f, present := m[key]; present && !positiveNumber(f) {
			return false
		}
	}
	if name, present := m["name"]; present {
		if _, ok := name.(string); !ok {
			return false
		}
	}
	if unit, present := m["unit"]; present {
		if _, ok := unit.(string); !ok {
			return false
		}
	}
	return true
}

// Colour reports whether s is a 3- or 6-digit hex string or a palette
// name.
func Colour(s string) bool {
	if hexColorRe.MatchString(s) {
		return true
	}
	_, ok := model.PaletteColor(s)
	return ok
}

// colourOf fetches the colour field under either spelling. "colour"
// wins when both are present. A present non-string value comes back as
// "" so the caller rejects it.
func colourOf(m map[string]any) (string, bool) {
	if c, present := m["colour"]; present {
		s, _ := c.(string)
		return s, true
	}
	if c, present := m["color"]; present {
		s, _ := c.(string)
		return s, true
	}
	return "", false
}

func finiteNumber(v any) bool {
	f, ok := toFloat(v)
	return ok && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func positiveNumber(v any) bool {
	f, ok := toFloat(v)
	return ok && f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// toFloat widens the numeric types YAML and JSON decoders produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
