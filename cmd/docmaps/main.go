package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"docmaps/internal/db"
	"docmaps/internal/server"
	"docmaps/internal/site"
)

// Options defines all CLI flags and env vars for the docmaps server.
// Flags: --host, --port, --site-dir, --out-dir, --data-dir, --web-dir
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_SITE_DIR, ...
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8087"`
	SiteDir string `doc:"Directory with source documents and images" default:"site"`
	OutDir  string `doc:"Directory for rendered pages" default:".out"`
	DataDir string `doc:"Directory for the inventory database" default:".data"`
	WebDir  string `doc:"Path to web/ directory" default:"web"`
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		SiteDir: opts.SiteDir,
		OutDir:  opts.OutDir,
		DataDir: opts.DataDir,
		WebDir:  opts.WebDir,
	})
}

// build runs the site pipeline and refreshes the inventory tables.
func build(opts *Options) error {
	res, err := site.Build(site.Config{
		SiteDir: opts.SiteDir,
		OutDir:  opts.OutDir,
	})
	if err != nil {
		return err
	}

	// The connection is the process-wide singleton the server reuses;
	// it is not closed here.
	conn, err := db.Get(db.Config{DataDir: opts.DataDir, DBName: "docmaps"})
	if err != nil {
		slog.Warn("skipping inventory update", "error", err)
		return nil
	}

	rows := make([]db.MapRow, 0, len(res.Resolved))
	for _, m := range res.Resolved {
		d := m.Decl
		rows = append(rows, db.MapRow{
			Name:        d.Name,
			Page:        m.Page,
			Image:       d.Image,
			Height:      d.Height,
			MinZoom:     d.MinZoom,
			MaxZoom:     d.MaxZoom,
			DefaultZoom: d.DefaultZoom,
			ZoomDelta:   d.ZoomDelta,
			Scale:       d.Scale,
			Unit:        d.Unit,
		})
	}
	return db.NewInventory(conn).Replace(rows, res.Registry)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		hooks.OnStart(func() {
			if err := build(opts); err != nil {
				log.Fatalf("Build error: %v", err)
			}
			srv := newServer(opts)

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("docmaps server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Site:    %s\n", opts.SiteDir)
			fmt.Println()
			fmt.Printf("  Pages:   %s/view/<slug>\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
	})

	cli.Root().Use = "docmaps"
	cli.Root().Short = "Interactive image maps for static-site documents"
	cli.Root().Version = "0.1.0"

	// build subcommand: render the site and refresh the inventory, no server
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site and refresh the map inventory",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			if err := build(opts); err != nil {
				fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
				os.Exit(1)
			}
			db.Close()
		}),
	}
	cli.Root().AddCommand(buildCmd)

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Run()
}
