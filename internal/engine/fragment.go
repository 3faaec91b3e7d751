package engine

import (
	"html"
	"regexp"
	"strings"

	"docmaps/internal/model"
)

// The scanner reads back the data attributes the resolver wrote. The
// fragment shape is our own fixed serialization contract, so a targeted
// scan is enough; this is not a general HTML parser.

const (
	containerMark = `class="docmap"`
	markerMark    = `class="docmap-marker"`
)

var attrRe = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9-]*)="([^"]*)"`)

// parseAttrs extracts attribute key/value pairs from one tag's text.
func parseAttrs(tag string) map[string]string {
	attrs := map[string]string{}
	for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
		attrs[m[1]] = html.UnescapeString(m[2])
	}
	return attrs
}

// ScanFragments finds every rendered map fragment in page and parses
// its dataset, marker children included. Marker children with
// malformed coordinates are dropped silently, matching the build-time
// policy; they never produce partial markers.
func ScanFragments(page string) []model.MapDataset {
	var datasets []model.MapDataset

	rest := page
	for {
		start := strings.Index(rest, containerMark)
		if start < 0 {
			break
		}
		tagEnd := strings.Index(rest[start:], ">")
		if tagEnd < 0 {
			break
		}
		ds := model.ParseMapDataset(parseAttrs(rest[start : start+tagEnd]))

		body := rest[start+tagEnd:]
		end := strings.Index(body, "</div>")
		if end < 0 {
			end = len(body)
		}
		for _, child := range strings.Split(body[:end], "<span") {
			if !strings.Contains(child, markerMark) {
				continue
			}
			if m, ok := model.ParseMarkerDataset(parseAttrs(child), ds.MinZoom); ok {
				ds.Markers = append(ds.Markers, m)
			}
		}

		datasets = append(datasets, ds)
		rest = rest[start+tagEnd+end:]
	}
	return datasets
}
