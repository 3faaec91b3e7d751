package resolver

import (
	"bytes"
	"html/template"
	"strconv"

	"docmaps/internal/model"
)

// The fragment carries every resolved value as a plain data attribute.
// It has no behavior of its own; the map engine reads it back when a
// page view activates.
var fragmentTmpl = template.Must(template.New("fragment").Parse(
	`<div class="docmap" id="docmap-{{.ID}}" style="height: {{.Height}}px"` +
		` data-src="{{.Src}}"` +
		` data-height="{{.Height}}"` +
		` data-min-zoom="{{.MinZoom}}"` +
		` data-max-zoom="{{.MaxZoom}}"` +
		` data-default-zoom="{{.DefaultZoom}}"` +
		` data-zoom-delta="{{.ZoomDelta}}"` +
		` data-scale="{{.Scale}}"` +
		` data-unit="{{.Unit}}">
{{- range .Markers}}
  <span class="docmap-marker" data-name="{{.Name}}" data-link="{{.Link}}" data-coordinates="{{.Coordinates}}" data-icon="{{.Icon}}" data-colour="{{.Colour}}" data-min-zoom="{{.MinZoom}}"></span>
{{- end}}
</div>`))

type fragmentData struct {
	ID          int
	Src         string
	Height      string
	MinZoom     string
	MaxZoom     string
	DefaultZoom string
	ZoomDelta   string
	Scale       string
	Unit        string
	Markers     []fragmentMarker
}

type fragmentMarker struct {
	Name        string
	Link        string
	Coordinates string
	Icon        string
	Colour      string
	MinZoom     string
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// renderFragment builds the replacement HTML for one resolved map.
// ordinal is the map's position on its page; the engine and the view
// layer address fragments by it.
func renderFragment(ordinal int, decl model.MapDeclaration, markers []model.MarkerRecord) string {
	data := fragmentData{
		ID:          ordinal,
		Src:         decl.Image,
		Height:      num(decl.Height),
		MinZoom:     num(decl.MinZoom),
		MaxZoom:     num(decl.MaxZoom),
		DefaultZoom: num(decl.DefaultZoom),
		ZoomDelta:   num(decl.ZoomDelta),
		Scale:       num(decl.Scale),
		Unit:        decl.Unit,
	}
	for _, m := range markers {
		data.Markers = append(data.Markers, fragmentMarker{
			Name:        m.DisplayName,
			Link:        m.TargetLink,
			Coordinates: m.Coordinates.String(),
			Icon:        m.Icon,
			Colour:      m.Color,
			MinZoom:     num(m.EffectiveMinZoom(decl.MinZoom)),
		})
	}

	var buf bytes.Buffer
	if err := fragmentTmpl.Execute(&buf, data); err != nil {
		// The template is static and the data plain strings; a failure
		// here is a programming error.
		panic(err)
	}
	return buf.String()
}
