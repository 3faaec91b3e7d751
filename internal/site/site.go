// Package site is the build pipeline: it walks a source directory,
// feeds every document through the resolver in lexical order, and
// writes rendered pages to the output directory. Marker extraction and
// map resolution run per document, in one pass; a map declared before
// the documents carrying its markers simply renders without them.
package site

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"docmaps/internal/content"
	"docmaps/internal/registry"
	"docmaps/internal/resolver"
	"docmaps/internal/templates"
)

// Config holds build inputs and outputs.
type Config struct {
	SiteDir string
	OutDir  string
	Logger  *slog.Logger
}

// Result summarizes one build pass.
type Result struct {
	Documents int
	Markers   int
	Maps      int
	Registry  *registry.Registry
	Resolved  []resolver.ResolvedMap
	// PageFor maps a document slug to its rendered page path under OutDir.
	PageFor map[string]string
}

// Build runs the full pipeline once. The registry lives exactly as
// long as this call's result.
func Build(cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	docPaths, assetPaths, err := scan(cfg.SiteDir)
	if err != nil {
		return nil, err
	}

	rctx := &resolver.Context{
		Registry: registry.New(),
		Assets:   assetPaths,
		PageLink: resolver.PageLinkFunc("/view"),
		Logger:   logger,
	}

	res := &Result{
		Registry: rctx.Registry,
		PageFor:  make(map[string]string, len(docPaths)),
	}

	renderer := templates.NewEmbedded()

	for _, rel := range docPaths {
		src, err := os.ReadFile(filepath.Join(cfg.SiteDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		slug := slugOf(rel)

		doc, err := content.Parse(slug, src)
		if err != nil {
			// A malformed document fails alone; the rest of the site
			// still builds.
			logger.Warn("skipping unparseable document",
				"slug", slug, "error", err)
			continue
		}

		res.Markers += rctx.ExtractMarkers(doc)
		maps, err := rctx.ResolveMaps(doc)
		if err != nil {
			return nil, err
		}
		res.Maps += maps

		out := filepath.Join(cfg.OutDir, filepath.FromSlash(slug)+".html")
		if err := writePage(renderer, out, doc); err != nil {
			return nil, err
		}
		res.PageFor[slug] = out
		res.Documents++
	}

	res.Resolved = rctx.Resolved
	logger.Info("site built",
		"documents", res.Documents,
		"markers", res.Markers,
		"maps", res.Maps)
	return res, nil
}

// scan collects document and asset paths (slash-separated, relative to
// root) in lexical order. Lexical order is the pipeline's processing
// order guarantee.
func scan(root string) (docs, assetPaths []string, err error) {
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(path.Base(rel), ".") {
			return nil
		}
		if path.Ext(rel) == ".md" {
			docs = append(docs, rel)
		} else {
			assetPaths = append(assetPaths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(docs)
	sort.Strings(assetPaths)
	return docs, assetPaths, nil
}

func slugOf(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel))
}

func writePage(renderer *templates.Renderer, out string, doc *content.Document) error {
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	page, err := renderer.Render("page", templates.PageData{
		Title: doc.Title,
		Slug:  doc.Slug,
		Body:  string(doc.Render()),
	})
	if err != nil {
		return fmt.Errorf("rendering page %s: %w", doc.Slug, err)
	}
	return os.WriteFile(out, []byte(page), 0644)
}
