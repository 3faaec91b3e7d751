// Package api defines the Huma REST routes over the build inventory.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"docmaps/internal/db"
	"docmaps/internal/model"
)

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	SiteDir  string   `json:"site_dir" doc:"Source document directory"`
	OutDir   string   `json:"out_dir" doc:"Rendered page directory"`
	DB       bool     `json:"db" doc:"Whether the inventory database is available"`
	Features []string `json:"features" doc:"Available features"`
}

type MapNameInput struct {
	Name string `path:"name" doc:"Map name" example:"dungeon"`
}

type MapsOutput struct {
	Body []db.MapRow
}

type MarkersOutput struct {
	Body []model.MarkerRecord
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	inv     *db.Inventory
	siteDir string
	outDir  string
}

func NewAPIHandler(inv *db.Inventory, siteDir, outDir string) *APIHandler {
	return &APIHandler{inv: inv, siteDir: siteDir, outDir: outDir}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

// RegisterMaps registers inventory listing routes.
func (h *APIHandler) RegisterMaps(api huma.API) {
	huma.Get(api, "/api/v1/maps", h.GetMaps, huma.OperationTags("maps"))
	huma.Get(api, "/api/v1/maps/{name}/markers", h.GetMarkers, huma.OperationTags("maps"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "docmaps",
		Version:  "0.1.0",
		SiteDir:  h.siteDir,
		OutDir:   h.outDir,
		DB:       h.inv != nil,
		Features: []string{"maps", "markers", "measure", "duckdb"},
	}}, nil
}

func (h *APIHandler) GetMaps(ctx context.Context, input *struct{}) (*MapsOutput, error) {
	if h.inv == nil {
		return &MapsOutput{Body: []db.MapRow{}}, nil
	}
	maps, err := h.inv.Maps()
	if err != nil {
		return nil, huma.Error500InternalServerError("listing maps", err)
	}
	if maps == nil {
		maps = []db.MapRow{}
	}
	return &MapsOutput{Body: maps}, nil
}

// GetMarkers returns the markers applicable to one map: the shared
// unassigned bucket plus the map's own bucket.
func (h *APIHandler) GetMarkers(ctx context.Context, input *MapNameInput) (*MarkersOutput, error) {
	if h.inv == nil {
		return &MarkersOutput{Body: []model.MarkerRecord{}}, nil
	}
	markers, err := h.inv.Markers(input.Name)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing markers", err)
	}
	if markers == nil {
		markers = []model.MarkerRecord{}
	}
	return &MarkersOutput{Body: markers}, nil
}
