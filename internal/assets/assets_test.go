package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	known := []string{
		"maps/town.png",
		"maps/old/town.png",
		"img/dungeon.png",
		"dungeon.png",
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{"exact path", "maps/town.png", "maps/town.png", nil},
		{"exact wins over suffix", "dungeon.png", "dungeon.png", nil},
		{"unique suffix", "old/town.png", "maps/old/town.png", nil},
		{"leading slash tolerated", "/maps/town.png", "maps/town.png", nil},
		{"ambiguous basename", "town.png", "", ErrAmbiguousAsset},
		{"unknown", "castle.png", "", ErrUnknownAsset},
		{"empty", "", "", ErrUnknownAsset},
		{"partial segment no match", "wn.png", "", ErrUnknownAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.ref, known)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirProber(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "maps"), 0755))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 320, 240))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maps", "town.png"), buf.Bytes(), 0644))

	p := DirProber{Root: dir}

	w, h, err := p.Probe(context.Background(), "/maps/town.png")
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	_, _, err = p.Probe(context.Background(), "/maps/missing.png")
	assert.Error(t, err)

	// Path traversal is confined to the root.
	_, _, err = p.Probe(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
