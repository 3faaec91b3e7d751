package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmaps/internal/model"
)

const samplePage = `<main>
<p>intro</p>
<div class="docmap" id="docmap-0" style="height: 400px" data-src="/maps/town.png" data-height="400" data-min-zoom="0" data-max-zoom="2" data-default-zoom="0.5" data-zoom-delta="0.5" data-scale="2" data-unit="m">
  <span class="docmap-marker" data-name="Town Hall" data-link="/view/town-hall" data-coordinates="10, 20" data-icon="fa:landmark" data-colour="d63e2a" data-min-zoom="0"></span>
  <span class="docmap-marker" data-name="Broken" data-link="/view/broken" data-coordinates="oops" data-icon="x" data-colour="303030" data-min-zoom="0"></span>
</div>
<p>between</p>
<div class="docmap" id="docmap-1" style="height: 300px" data-src="/maps/dungeon.png" data-height="300">
</div>
</main>`

func TestScanFragments(t *testing.T) {
	datasets := ScanFragments(samplePage)
	require.Len(t, datasets, 2)

	first := datasets[0]
	assert.Equal(t, "/maps/town.png", first.Src)
	assert.Equal(t, 400.0, first.Height)
	assert.Equal(t, 2.0, first.Scale)
	assert.Equal(t, "m", first.Unit)

	// The malformed marker is dropped, not partially parsed.
	require.Len(t, first.Markers, 1)
	m := first.Markers[0]
	assert.Equal(t, "Town Hall", m.Name)
	assert.Equal(t, model.Coordinates{X: 10, Y: 20}, m.Coordinates)

	// Absent attributes on the second fragment take their defaults.
	second := datasets[1]
	assert.Equal(t, "/maps/dungeon.png", second.Src)
	assert.Equal(t, model.DefaultMaxZoom, second.MaxZoom)
	assert.Equal(t, model.DefaultScale, second.Scale)
	assert.Empty(t, second.Markers)
}

func TestScanFragments_NoFragments(t *testing.T) {
	assert.Empty(t, ScanFragments("<main><p>plain page</p></main>"))
	assert.Empty(t, ScanFragments(""))
}

func TestScanFragments_UnescapesEntities(t *testing.T) {
	page := `<div class="docmap" data-src="/maps/a&amp;b.png" data-height="100" data-zoom-delta="0.5" data-scale="1">
<span class="docmap-marker" data-name="Smith &amp; Sons" data-coordinates="1, 2"></span>
</div>`
	datasets := ScanFragments(page)
	require.Len(t, datasets, 1)
	assert.Equal(t, "/maps/a&b.png", datasets[0].Src)
	require.Len(t, datasets[0].Markers, 1)
	assert.Equal(t, "Smith & Sons", datasets[0].Markers[0].Name)
}

func TestScanFragments_InheritsMapMinZoom(t *testing.T) {
	page := `<div class="docmap" data-src="/m.png" data-height="100" data-min-zoom="1" data-zoom-delta="0.5" data-scale="1">
<span class="docmap-marker" data-name="a" data-coordinates="1, 2"></span>
<span class="docmap-marker" data-name="b" data-coordinates="3, 4" data-min-zoom="0.25"></span>
</div>`
	datasets := ScanFragments(page)
	require.Len(t, datasets, 1)
	require.Len(t, datasets[0].Markers, 2)
	assert.Equal(t, 1.0, datasets[0].Markers[0].MinZoom)
	assert.Equal(t, 0.25, datasets[0].Markers[1].MinZoom)
}
