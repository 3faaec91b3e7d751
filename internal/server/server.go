// Package server wires the HTTP surface: the Huma REST API, the
// Datastar view routes, rendered pages, and static assets.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"docmaps/internal/api"
	"docmaps/internal/api/view"
	"docmaps/internal/assets"
	"docmaps/internal/db"
	"docmaps/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	SiteDir string // Source documents and images
	OutDir  string // Rendered pages
	DataDir string // Inventory database location
	WebDir  string // Optional override for static files and templates
	Logger  *slog.Logger
}

// Server is the docmaps HTTP server.
type Server struct {
	config  Config
	mux     *http.ServeMux
	humaAPI huma.API
	db      *sql.DB
	logger  *slog.Logger
}

// New creates a new docmaps server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("docmaps API", "1.0.0")
	humaConfig.Info.Description = "Interactive image maps for static-site documents: build inventory, marker lookup, and live map views."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humaAPI,
		logger:  logger,
	}

	conn, err := db.Get(db.Config{
		DataDir: cfg.DataDir,
		DBName:  "docmaps",
	})
	if err == nil {
		s.db = conn
	} else {
		logger.Warn("inventory database unavailable", "error", err)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	return db.Close()
}

// OpenAPI exposes the generated spec for the export command.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes() {
	// REST API (OpenAPI-documented JSON endpoints)
	var inv *db.Inventory
	if s.db != nil {
		inv = db.NewInventory(s.db)
	}
	huma.AutoRegister(s.humaAPI, api.NewAPIHandler(inv, s.config.SiteDir, s.config.OutDir))
	if s.db != nil {
		api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)
	}

	// Live view routes (Datastar SSE)
	renderer := s.renderer()
	prober := assets.DirProber{Root: s.config.SiteDir}
	view.NewHandler(renderer, s.config.OutDir, prober, s.logger).RegisterRoutes(s.humaAPI)

	// Static files
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	// Page and asset routes
	s.mux.HandleFunc("/view/", s.handlePage)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) renderer() *templates.Renderer {
	if s.config.WebDir != "" {
		dir := filepath.Join(s.config.WebDir, "templates", "fragments")
		if r, err := templates.New(dir); err == nil {
			s.logger.Info("loaded fragment templates", "dir", dir)
			return r
		}
	}
	return templates.NewEmbedded()
}

// handlePage serves a rendered page by slug.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/view/")
	slug = strings.Trim(path.Clean("/"+slug), "/")
	if slug == "" || slug == "." {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.config.OutDir, filepath.FromSlash(slug)+".html"))
}

// handleRoot serves site assets (map images live next to the documents)
// and a status document at the bare root.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"service": "docmaps",
			"status":  "running",
		})
		return
	}

	rel := path.Clean("/" + r.URL.Path)
	if path.Ext(rel) == ".md" {
		http.NotFound(w, r)
		return
	}
	p := filepath.Join(s.config.SiteDir, filepath.FromSlash(rel))
	if info, err := os.Stat(p); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, p)
}
