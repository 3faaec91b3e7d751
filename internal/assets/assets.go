// Package assets resolves author-written asset references against the
// site's known file set and probes images for their native dimensions.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"path"
	"strings"

	// Image formats accepted for map backgrounds.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	// ErrUnknownAsset is returned when a reference matches no known path.
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrAmbiguousAsset is returned when a reference matches more than
	// one known path.
	ErrAmbiguousAsset = errors.New("ambiguous asset reference")
)

// Resolve maps ref to a site path using shortest-unambiguous-path
// matching: the reference must equal a trailing run of path segments of
// exactly one known asset. An exact full-path match always wins.
func Resolve(ref string, known []string) (string, error) {
	ref = strings.TrimPrefix(path.Clean(ref), "/")
	if ref == "" || ref == "." {
		return "", ErrUnknownAsset
	}

	var matches []string
	for _, k := range known {
		clean := strings.TrimPrefix(path.Clean(k), "/")
		if clean == ref {
			return clean, nil
		}
		if strings.HasSuffix(clean, "/"+ref) {
			matches = append(matches, clean)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrUnknownAsset, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d assets", ErrAmbiguousAsset, ref, len(matches))
	}
}

// Prober reports an image's native pixel size.
type Prober interface {
	Probe(ctx context.Context, src string) (width, height int, err error)
}

// DirProber probes images stored under a site directory.
type DirProber struct {
	Root string
}

func (p DirProber) Probe(ctx context.Context, src string) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(path.Join(p.Root, path.Clean("/"+src)))
	if err != nil {
		return 0, 0, fmt.Errorf("probing image %q: %w", src, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image %q: %w", src, err)
	}
	return cfg.Width, cfg.Height, nil
}

// HTTPProber probes images served over HTTP. Only the header bytes are
// decoded; the body read stops as soon as the config is known.
type HTTPProber struct {
	Client *http.Client
}

func (p HTTPProber) Probe(ctx context.Context, src string) (int, int, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("fetching image %q: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("fetching image %q: status %d", src, resp.StatusCode)
	}
	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image %q: %w", src, err)
	}
	return cfg.Width, cfg.Height, nil
}
