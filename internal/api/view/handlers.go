// Package view hosts the live map sessions behind Datastar SSE
// endpoints. Activating a page view scans its rendered fragments,
// bootstraps one engine instance per map (each awaiting its own image
// probe), and keeps the session alive until the activation stream's
// context ends; interaction events arrive as separate signal posts.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"docmaps/internal/assets"
	"docmaps/internal/engine"
	"docmaps/internal/humastar"
	"docmaps/internal/model"
	"docmaps/internal/templates"
)

// Handler serves the view SSE routes.
type Handler struct {
	humastar.Handler
	renderer *templates.Renderer
	sessions *Sessions
	outDir   string
	prober   assets.Prober
	logger   *slog.Logger
}

// NewHandler creates the view handler. outDir is the built site
// directory; prober loads map images for instance bootstrap.
func NewHandler(renderer *templates.Renderer, outDir string, prober assets.Prober, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		renderer: renderer,
		sessions: NewSessions(),
		outDir:   outDir,
		prober:   prober,
		logger:   logger,
	}
}

// Sessions exposes the session store, mainly for tests.
func (h *Handler) Sessions() *Sessions { return h.sessions }

// RegisterRoutes registers the view SSE routes.
func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/view/activate", h.Activate, huma.OperationTags("view"))
	huma.Post(api, "/api/v1/view/{session}/maps/{ordinal}/click", h.Click, huma.OperationTags("view"))
	huma.Post(api, "/api/v1/view/{session}/maps/{ordinal}/move", h.Move, huma.OperationTags("view"))
	huma.Post(api, "/api/v1/view/{session}/maps/{ordinal}/tail", h.Tail, huma.OperationTags("view"))
	huma.Post(api, "/api/v1/view/{session}/maps/{ordinal}/tool/{tool}", h.SelectTool, huma.OperationTags("view"))
	huma.Post(api, "/api/v1/view/{session}/maps/{ordinal}/zoom/{direction}", h.Zoom, huma.OperationTags("view"))
}

// ActivateInput identifies the page being activated.
type ActivateInput struct {
	Slug string `query:"slug" doc:"Document slug of the page"`
}

// Activate bootstraps a session for a page view. The stream stays open
// for the lifetime of the view; when it closes, the session and every
// instance it owns are torn down.
func (h *Handler) Activate(ctx context.Context, input *ActivateInput) (*huma.StreamResponse, error) {
	page, err := os.ReadFile(filepath.Join(h.outDir, filepath.FromSlash(input.Slug)+".html"))
	if err != nil {
		return nil, huma.Error404NotFound("page not found: " + input.Slug)
	}
	datasets := engine.ScanFragments(string(page))

	return h.Stream(func(sse humastar.SSE) {
		sess := h.sessions.Create(input.Slug, len(datasets))
		defer h.sessions.Drop(sess.ID)

		ch := sess.Bus.Subscribe()
		defer sess.Bus.Unsubscribe(ch)

		for n, ds := range datasets {
			go func(n int, ds model.MapDataset) {
				inst, err := engine.Bootstrap(ctx, ds, h.prober)
				if err != nil {
					h.logger.Warn("map bootstrap failed",
						"slug", input.Slug, "ordinal", n, "error", err)
					sess.Bus.Publish(Event{Ordinal: n, Kind: "failed"})
					return
				}
				if !sess.SetInstance(n, inst) {
					// view went away while the image loaded
					return
				}
				sess.Bus.Publish(Event{Ordinal: n, Kind: "ready"})
			}(n, ds)
		}

		remaining := len(datasets)
		for remaining > 0 {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				remaining--
				if ev.Kind != "ready" {
					continue
				}
				inst, ok := sess.Instance(ev.Ordinal)
				if !ok {
					continue
				}
				base := sessionBase(sess.ID, ev.Ordinal)
				inst.Do(func() {
					sse.Patch(renderLive(h.renderer, base, ev.Ordinal, inst),
						fragmentSelector(ev.Ordinal))
				})
			}
		}

		// all maps settled; hold the session open until the view ends
		<-ctx.Done()
	}), nil
}

// MapInput identifies one map instance within a session.
type MapInput struct {
	Session string `path:"session"`
	Ordinal int    `path:"ordinal"`
	humastar.SignalsInput
}

func fragmentSelector(ordinal int) string {
	return fmt.Sprintf("#docmap-%d", ordinal)
}

// instance resolves the addressed instance. Events for unknown
// sessions or not-yet-ready maps are dropped silently: they are echoes
// of a torn-down or still-loading view, not client errors.
func (h *Handler) instance(in *MapInput) (*engine.Instance, string, bool) {
	sess, ok := h.sessions.Get(in.Session)
	if !ok {
		return nil, "", false
	}
	inst, ok := sess.Instance(in.Ordinal)
	if !ok {
		return nil, "", false
	}
	return inst, sessionBase(sess.ID, in.Ordinal), true
}

// point converts page pixel signals into plane coordinates.
func point(inst *engine.Instance, signals humastar.Signals) orb.Point {
	k := zoomFactor(inst.Zoom())
	return orb.Point{signals.Float("x") / k, signals.Float("y") / k}
}

// Click delivers a map click to the active tool.
func (h *Handler) Click(ctx context.Context, input *MapInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	return h.Stream(func(sse humastar.SSE) {
		inst, base, ok := h.instance(input)
		if !ok {
			return
		}
		inst.Do(func() {
			inst.Click(point(inst, signals))
			h.patchInteraction(sse, base, input.Ordinal, inst)
		})
	}), nil
}

// Move updates the live measurement preview.
func (h *Handler) Move(ctx context.Context, input *MapInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	return h.Stream(func(sse humastar.SSE) {
		inst, base, ok := h.instance(input)
		if !ok {
			return
		}
		inst.Do(func() {
			inst.PointerMove(point(inst, signals))
			sse.Patch(renderOverlay(h.renderer, base, inst), overlaySelector(input.Ordinal))
		})
	}), nil
}

// Tail arms measurement finalization when the tail marker is clicked.
func (h *Handler) Tail(ctx context.Context, input *MapInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		inst, base, ok := h.instance(input)
		if !ok {
			return
		}
		inst.Do(func() {
			if m := measureOf(inst); m != nil {
				m.OnTailClick()
			}
			h.patchInteraction(sse, base, input.Ordinal, inst)
		})
	}), nil
}

// ToolInput addresses a tool on one map instance.
type ToolInput struct {
	MapInput
	Tool string `path:"tool"`
}

// SelectTool switches the active tool.
func (h *Handler) SelectTool(ctx context.Context, input *ToolInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		inst, base, ok := h.instance(&input.MapInput)
		if !ok {
			return
		}
		inst.Do(func() {
			if err := inst.Control().Select(input.Tool); err != nil {
				sse.Error(err.Error())
				return
			}
			// tool change affects cursor and pin clickability, so
			// repaint the whole map
			sse.Replace(renderLive(h.renderer, base, input.Ordinal, inst),
				mapSelector(input.Ordinal))
		})
	}), nil
}

// ZoomInput addresses a zoom step on one map instance.
type ZoomInput struct {
	MapInput
	Direction string `path:"direction" enum:"in,out"`
}

// Zoom steps the zoom and repaints the map with the new plane size and
// marker visibility.
func (h *Handler) Zoom(ctx context.Context, input *ZoomInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		inst, base, ok := h.instance(&input.MapInput)
		if !ok {
			return
		}
		inst.Do(func() {
			switch input.Direction {
			case "out":
				inst.ZoomOut()
			default:
				inst.ZoomIn()
			}
			sse.Replace(renderLive(h.renderer, base, input.Ordinal, inst),
				mapSelector(input.Ordinal))
		})
	}), nil
}

func overlaySelector(ordinal int) string {
	return fmt.Sprintf("#overlay-%d", ordinal)
}

// mapSelector targets the live map root rendered into a fragment.
func mapSelector(ordinal int) string {
	return fmt.Sprintf("#map-%d", ordinal)
}

// patchInteraction repaints the measurement overlay after a click-like
// event; the rest of the map is unchanged by tool input.
func (h *Handler) patchInteraction(sse humastar.SSE, base string, ordinal int, inst *engine.Instance) {
	sse.Patch(renderOverlay(h.renderer, base, inst), overlaySelector(ordinal))
}
