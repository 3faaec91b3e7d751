// Package resolver turns author declarations into registry entries and
// rendered map fragments. It runs once per document during a build:
// ExtractMarkers, then ResolveMaps, document by document in lexical
// order. Maps resolved before a later document registers its markers
// will not show them; that ordering sensitivity is part of the
// contract, not something the resolver compensates for.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"docmaps/internal/assets"
	"docmaps/internal/content"
	"docmaps/internal/model"
	"docmaps/internal/registry"
	"docmaps/internal/validate"
)

// MapTag is the fenced-block info tag that marks a map declaration.
const MapTag = "map"

// defaultColour is applied when a marker declares no colour.
const defaultColour = "blue"

// ErrNoSlug indicates the host pipeline handed over a document without
// an identifier. That is a contract breach, not author error.
var ErrNoSlug = errors.New("resolver: document has no slug")

// Context carries the per-build state the resolver needs: the shared
// marker registry, the site's asset paths for image resolution, and
// the mapping from a document slug to its navigable URL.
type Context struct {
	Registry *registry.Registry
	Assets   []string

	// PageLink turns a document slug into a URL usable from any page.
	PageLink func(slug string) string

	Logger *slog.Logger

	// Resolved accumulates every successfully resolved declaration,
	// in resolution order, for the build inventory.
	Resolved []ResolvedMap
}

// ResolvedMap records one resolved map declaration and the document it
// came from.
type ResolvedMap struct {
	Page string
	Decl model.MapDeclaration
}

func (c *Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// ExtractMarkers reads the document's marker metadata and registers a
// record per valid entry. Invalid entries are dropped without failing
// the document; a document without title, slug or marker metadata is a
// no-op. Returns the number of markers registered.
func (c *Context) ExtractMarkers(doc *content.Document) int {
	if doc.Title == "" || doc.Slug == "" || doc.Meta == nil {
		return 0
	}
	raw, ok := doc.Meta["markers"]
	if !ok {
		return 0
	}

	// A single mapping and a sequence of mappings are both accepted.
	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case map[string]any:
		entries = []any{v}
	default:
		return 0
	}

	registered := 0
	for _, entry := range entries {
		rec, ok := c.markerRecord(doc, entry)
		if !ok {
			c.logger().Debug("dropping invalid marker declaration",
				"slug", doc.Slug)
			continue
		}
		c.Registry.Register(rec.MapName, rec)
		registered++
	}
	return registered
}

// markerRecord converts one validated metadata entry into a record.
func (c *Context) markerRecord(doc *content.Document, entry any) (model.MarkerRecord, bool) {
	if !validate.Marker(entry) {
		return model.MarkerRecord{}, false
	}
	m := entry.(map[string]any)

	coords, err := model.ParseCoordinates(m["coordinates"].(string))
	if err != nil {
		return model.MarkerRecord{}, false
	}

	rec := model.MarkerRecord{
		DisplayName: doc.Title,
		TargetLink:  c.PageLink(doc.Slug),
		Coordinates: coords,
		Icon:        m["icon"].(string),
		Color:       resolveColour(m),
	}
	if name, ok := m["mapName"].(string); ok {
		rec.MapName = name
	}
	if mz, ok := m["minZoom"]; ok {
		f := toFloat(mz)
		rec.MinZoom = &f
	}
	return rec, true
}

// resolveColour returns the marker's hex colour: palette names are
// translated, hex values pass through lowercased, absence falls back
// to the default.
func resolveColour(m map[string]any) string {
	raw := ""
	if s, ok := m["colour"].(string); ok {
		raw = s
	} else if s, ok := m["color"].(string); ok {
		raw = s
	}
	if raw == "" {
		raw = defaultColour
	}
	if hex, ok := model.PaletteColor(raw); ok {
		return hex
	}
	return strings.ToLower(raw)
}

// ResolveMaps scans the document's blocks for map declarations and
// replaces each valid one with its rendered fragment in place.
// Unrecognized or invalid blocks pass through untouched. Returns the
// number of maps resolved.
func (c *Context) ResolveMaps(doc *content.Document) (int, error) {
	if doc.Slug == "" {
		return 0, ErrNoSlug
	}

	resolved := 0
	for i, b := range doc.Blocks {
		if b.Kind != content.KindFenced || b.Tag != MapTag {
			continue
		}
		frag, ok := c.resolveBlock(doc, resolved, b.Text)
		if !ok {
			continue
		}
		doc.Blocks[i] = content.Block{Kind: content.KindFragment, Text: frag}
		resolved++
	}
	return resolved, nil
}

// resolveBlock parses one declaration body and renders its fragment.
func (c *Context) resolveBlock(doc *content.Document, ordinal int, body string) (string, bool) {
	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(body), &raw); err != nil {
		c.logger().Debug("map block is not valid YAML, leaving untouched",
			"slug", doc.Slug, "error", err)
		return "", false
	}
	// An explicit type key must agree with the block tag.
	if t, ok := raw["type"].(string); ok && t != MapTag {
		return "", false
	}
	if !validate.Map(raw) {
		c.logger().Debug("dropping invalid map declaration", "slug", doc.Slug)
		return "", false
	}

	decl := declarationFrom(raw)

	src, err := assets.Resolve(decl.Image, c.Assets)
	if err != nil {
		c.logger().Debug("map image does not resolve, leaving block untouched",
			"slug", doc.Slug, "image", decl.Image, "error", err)
		return "", false
	}
	decl.Image = "/" + src

	markers := c.Registry.Lookup(decl.Name)
	c.Resolved = append(c.Resolved, ResolvedMap{Page: doc.Slug, Decl: decl})
	return renderFragment(ordinal, decl, markers), true
}

// declarationFrom builds a typed declaration from validated raw input,
// applying defaults and the zoom clamp.
func declarationFrom(raw map[string]any) model.MapDeclaration {
	decl := model.NewMapDeclaration()

	if name, ok := raw["name"].(string); ok {
		decl.Name = name
	} else if name, ok := raw["mapName"].(string); ok {
		decl.Name = name
	}
	decl.Image = raw["image"].(string)

	if v, ok := raw["height"]; ok {
		decl.Height = toFloat(v)
	}
	if v, ok := raw["minZoom"]; ok {
		decl.MinZoom = toFloat(v)
	}
	if v, ok := raw["maxZoom"]; ok {
		decl.MaxZoom = toFloat(v)
	} else {
		decl.MaxZoom = model.DefaultMaxZoom
	}
	if v, ok := raw["defaultZoom"]; ok {
		decl.DefaultZoom = toFloat(v)
	} else {
		decl.DefaultZoom = decl.MinZoom
	}
	if v, ok := raw["zoomDelta"]; ok {
		decl.ZoomDelta = toFloat(v)
	}
	if v, ok := raw["scale"]; ok {
		decl.Scale = toFloat(v)
	}
	if unit, ok := raw["unit"].(string); ok {
		decl.Unit = unit
	}

	decl.ClampZoom()
	return decl
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return 0
}

// PageLinkFunc returns the default slug-to-URL mapping under the given
// path prefix.
func PageLinkFunc(prefix string) func(string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	return func(slug string) string {
		return fmt.Sprintf("%s/%s", prefix, slug)
	}
}
