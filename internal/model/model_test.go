package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampZoom(t *testing.T) {
	tests := []struct {
		name string
		in   MapDeclaration
		want MapDeclaration
	}{
		{
			"max below min lifts max",
			MapDeclaration{MinZoom: 2, MaxZoom: 0, DefaultZoom: 2},
			MapDeclaration{MinZoom: 2, MaxZoom: 2, DefaultZoom: 2},
		},
		{
			"default below min lifts default",
			MapDeclaration{MinZoom: 1, MaxZoom: 3, DefaultZoom: 0},
			MapDeclaration{MinZoom: 1, MaxZoom: 3, DefaultZoom: 1},
		},
		{
			"default above max sinks default",
			MapDeclaration{MinZoom: 0, MaxZoom: 2, DefaultZoom: 5},
			MapDeclaration{MinZoom: 0, MaxZoom: 2, DefaultZoom: 2},
		},
		{
			"consistent declaration untouched",
			MapDeclaration{MinZoom: 0, MaxZoom: 2, DefaultZoom: 1},
			MapDeclaration{MinZoom: 0, MaxZoom: 2, DefaultZoom: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.in
			d.ClampZoom()
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestNewMapDeclarationDefaults(t *testing.T) {
	d := NewMapDeclaration()
	assert.Equal(t, DefaultHeight, d.Height)
	assert.Equal(t, DefaultMinZoom, d.MinZoom)
	assert.Equal(t, DefaultMaxZoom, d.MaxZoom)
	// An absent defaultZoom falls back to minZoom, not to some midpoint.
	assert.Equal(t, d.MinZoom, d.DefaultZoom)
	assert.Equal(t, DefaultZoomDelta, d.ZoomDelta)
	assert.Equal(t, DefaultScale, d.Scale)
}

func TestEffectiveMinZoom(t *testing.T) {
	own := 1.5
	assert.Equal(t, 1.5, MarkerRecord{MinZoom: &own}.EffectiveMinZoom(0))
	assert.Equal(t, 0.5, MarkerRecord{}.EffectiveMinZoom(0.5))
}

func TestPaletteColor(t *testing.T) {
	hex, ok := PaletteColor("red")
	require.True(t, ok)
	assert.Equal(t, "d63e2a", hex)

	hex, ok = PaletteColor("Gold")
	require.True(t, ok)
	assert.Equal(t, "ffca28", hex)

	_, ok = PaletteColor("mauve")
	assert.False(t, ok)
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Coordinates
		wantErr bool
	}{
		{"plain", "10, 20", Coordinates{10, 20}, false},
		{"no space", "10,20", Coordinates{10, 20}, false},
		{"negative", "-3, -4.5", Coordinates{-3, -4.5}, false},
		{"missing part", "10,", Coordinates{}, true},
		{"extra part", "1, 2, 3", Coordinates{}, true},
		{"non-numeric", "a, b", Coordinates{}, true},
		{"empty", "", Coordinates{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinates(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCoordinates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordinatesString(t *testing.T) {
	assert.Equal(t, "10, 20", Coordinates{10, 20}.String())
	assert.Equal(t, "-3, 4.5", Coordinates{-3, 4.5}.String())
}

func TestParseMapDataset_Defaults(t *testing.T) {
	ds := ParseMapDataset(map[string]string{AttrSrc: "/maps/town.png"})
	assert.Equal(t, "/maps/town.png", ds.Src)
	assert.Equal(t, DefaultHeight, ds.Height)
	assert.Equal(t, DefaultMaxZoom, ds.MaxZoom)
	assert.Equal(t, DefaultMinZoom, ds.DefaultZoom)
	assert.True(t, ds.Complete())

	// Unparseable values fall back the same way as absent ones.
	ds = ParseMapDataset(map[string]string{
		AttrSrc:    "/maps/town.png",
		AttrHeight: "tall",
	})
	assert.Equal(t, DefaultHeight, ds.Height)
}

func TestParseMapDataset_Incomplete(t *testing.T) {
	assert.False(t, ParseMapDataset(map[string]string{}).Complete())
	assert.False(t, ParseMapDataset(map[string]string{
		AttrSrc:   "/a.png",
		AttrScale: "0",
	}).Complete())
}

func TestParseMarkerDataset(t *testing.T) {
	attrs := map[string]string{
		AttrName:        "Town Hall",
		AttrLink:        "/view/town-hall",
		AttrCoordinates: "120, 80",
		AttrIcon:        "fa:landmark",
		AttrColour:      "d63e2a",
	}
	md, ok := ParseMarkerDataset(attrs, 1.0)
	require.True(t, ok)
	assert.Equal(t, Coordinates{120, 80}, md.Coordinates)
	// No own threshold: the map's minZoom applies.
	assert.Equal(t, 1.0, md.MinZoom)

	attrs[AttrMinZoom] = "0.5"
	md, ok = ParseMarkerDataset(attrs, 1.0)
	require.True(t, ok)
	assert.Equal(t, 0.5, md.MinZoom)

	attrs[AttrCoordinates] = "not-a-pair"
	_, ok = ParseMarkerDataset(attrs, 1.0)
	assert.False(t, ok)
}
