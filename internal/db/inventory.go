package db

import (
	"database/sql"
	"fmt"

	"docmaps/internal/model"
	"docmaps/internal/registry"
)

// MapRow is one built map in the inventory.
type MapRow struct {
	Name        string  `json:"name"`
	Page        string  `json:"page"`
	Image       string  `json:"image"`
	Height      float64 `json:"height"`
	MinZoom     float64 `json:"minZoom"`
	MaxZoom     float64 `json:"maxZoom"`
	DefaultZoom float64 `json:"defaultZoom"`
	ZoomDelta   float64 `json:"zoomDelta"`
	Scale       float64 `json:"scale"`
	Unit        string  `json:"unit"`
}

// Inventory reads and writes the built map/marker tables.
type Inventory struct {
	conn *sql.DB
}

// NewInventory wraps a DuckDB connection.
func NewInventory(conn *sql.DB) *Inventory {
	return &Inventory{conn: conn}
}

// Replace clears both tables and writes the given build output. Called
// once per build; the inventory always reflects the latest pass.
func (inv *Inventory) Replace(maps []MapRow, reg *registry.Registry) error {
	tx, err := inv.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"maps", "markers"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, m := range maps {
		_, err := tx.Exec(
			`INSERT INTO maps VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Name, m.Page, m.Image, m.Height, m.MinZoom, m.MaxZoom,
			m.DefaultZoom, m.ZoomDelta, m.Scale, m.Unit)
		if err != nil {
			return fmt.Errorf("inserting map %q: %w", m.Name, err)
		}
	}

	// Lookup prepends the unassigned bucket to every named bucket, so
	// walk the buckets once instead of re-inserting shared records.
	// seq preserves that walk order, unassigned records first.
	for seq, r := range collectAll(reg) {
		var minZoom any
		if r.MinZoom != nil {
			minZoom = *r.MinZoom
		}
		_, err := tx.Exec(
			`INSERT INTO markers VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seq, registry.Key(r.MapName), r.DisplayName, r.TargetLink,
			r.Coordinates.X, r.Coordinates.Y, r.Icon, r.Color, minZoom)
		if err != nil {
			return fmt.Errorf("inserting marker %q: %w", r.DisplayName, err)
		}
	}

	return tx.Commit()
}

func collectAll(reg *registry.Registry) []model.MarkerRecord {
	var out []model.MarkerRecord
	seen := map[string]bool{}
	appendBucket := func(name string) {
		key := registry.Key(name)
		if seen[key] {
			return
		}
		seen[key] = true
		for _, r := range reg.Lookup(name) {
			if registry.Key(r.MapName) == key {
				out = append(out, r)
			}
		}
	}
	appendBucket("")
	for _, name := range reg.Names() {
		appendBucket(name)
	}
	return out
}

// Maps lists the built maps.
func (inv *Inventory) Maps() ([]MapRow, error) {
	rows, err := inv.conn.Query(
		`SELECT name, page, image, height, min_zoom, max_zoom,
		        default_zoom, zoom_delta, scale, unit
		 FROM maps ORDER BY page, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MapRow
	for rows.Next() {
		var m MapRow
		if err := rows.Scan(&m.Name, &m.Page, &m.Image, &m.Height,
			&m.MinZoom, &m.MaxZoom, &m.DefaultZoom, &m.ZoomDelta,
			&m.Scale, &m.Unit); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Markers lists the markers applicable to mapName: the unassigned
// bucket plus the named bucket, mirroring registry lookup semantics.
func (inv *Inventory) Markers(mapName string) ([]model.MarkerRecord, error) {
	rows, err := inv.conn.Query(
		`SELECT map_name, name, link, x, y, icon, colour, min_zoom
		 FROM markers WHERE map_name = ? OR map_name = ?
		 ORDER BY seq`,
		registry.Key(""), registry.Key(mapName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MarkerRecord
	for rows.Next() {
		var (
			r       model.MarkerRecord
			bucket  string
			minZoom sql.NullFloat64
		)
		if err := rows.Scan(&bucket, &r.DisplayName, &r.TargetLink,
			&r.Coordinates.X, &r.Coordinates.Y, &r.Icon, &r.Color,
			&minZoom); err != nil {
			return nil, err
		}
		if bucket != registry.Key("") {
			r.MapName = bucket
		}
		if minZoom.Valid {
			v := minZoom.Float64
			r.MinZoom = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
