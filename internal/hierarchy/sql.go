package hierarchy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"geopick/internal/domain"
)

// Supported database/sql drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

const (
	defaultSQLitePath  = "geopick.db"
	defaultPostgresDSN = "postgres://localhost/geopick?sslmode=disable"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS geo_regions (
		name TEXT PRIMARY KEY,
		ord INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS geo_region_countries (
		region TEXT NOT NULL,
		country TEXT NOT NULL,
		ord INTEGER NOT NULL,
		PRIMARY KEY (region, country)
	)`,
	`CREATE TABLE IF NOT EXISTS geo_countries (
		name TEXT PRIMARY KEY,
		ord INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS geo_provinces (
		country TEXT NOT NULL,
		name TEXT NOT NULL,
		ord INTEGER NOT NULL,
		PRIMARY KEY (country, name)
	)`,
	`CREATE TABLE IF NOT EXISTS geo_cities (
		country TEXT NOT NULL,
		province TEXT NOT NULL,
		name TEXT NOT NULL,
		ord INTEGER NOT NULL,
		PRIMARY KEY (country, province, name)
	)`,
}

// SQLProvider reads the hierarchy from a relational store (SQLite or Postgres)
type SQLProvider struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens the store and ensures the schema exists
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLProvider, error) {
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
				return nil, fmt.Errorf("create dirs: %w", err)
			}
		}
	case DriverPostgres:
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
	default:
		return nil, fmt.Errorf("unsupported hierarchy driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	p := NewSQLProvider(db, driver)
	if err := p.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// NewSQLProvider wraps an already open database
func NewSQLProvider(db *sql.DB, driver string) *SQLProvider {
	return &SQLProvider{db: db, driver: driver}
}

// Close releases the database handle
func (p *SQLProvider) Close() error {
	return p.db.Close()
}

// Migrate creates the hierarchy tables if missing
func (p *SQLProvider) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create hierarchy schema: %w", err)
		}
	}
	return nil
}

// ph returns the n-th (1-based) bind placeholder for the driver
func (p *SQLProvider) ph(n int) string {
	if p.driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (p *SQLProvider) placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = p.ph(i + 1)
	}
	return strings.Join(parts, ", ")
}

// Import replaces the stored hierarchy with data
func (p *SQLProvider) Import(ctx context.Context, data Dataset) (retErr error) {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("invalid hierarchy: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"geo_cities", "geo_provinces", "geo_countries", "geo_region_countries", "geo_regions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insert := func(table, cols string, n int, args ...any) error {
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, p.placeholders(n))
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		return nil
	}

	for i, r := range data.Regions {
		if err := insert("geo_regions", "name, ord", 2, r.Key, i); err != nil {
			return err
		}
		for j, country := range r.Leaves {
			if err := insert("geo_region_countries", "region, country, ord", 3, r.Key, country, j); err != nil {
				return err
			}
		}
	}
	for i, c := range data.Countries {
		if err := insert("geo_countries", "name, ord", 2, c.Name, i); err != nil {
			return err
		}
		for j, prov := range c.Provinces {
			if err := insert("geo_provinces", "country, name, ord", 3, c.Name, prov.Name, j); err != nil {
				return err
			}
			for k, city := range prov.Cities {
				if err := insert("geo_cities", "country, province, name, ord", 4, c.Name, prov.Name, city, k); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// FetchHierarchy implements RegionProvider
func (p *SQLProvider) FetchHierarchy(ctx context.Context) (domain.Hierarchy, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT r.name, c.country
		FROM geo_regions r
		LEFT JOIN geo_region_countries c ON c.region = r.name
		ORDER BY r.ord, c.ord`)
	if err != nil {
		return domain.Hierarchy{}, Unavailable("fetch hierarchy", err)
	}
	defer func() { _ = rows.Close() }()

	h, err := collectBranches(rows, func(city string, _ string) string { return city })
	if err != nil {
		return domain.Hierarchy{}, Unavailable("fetch hierarchy", err)
	}
	return h, nil
}

// FetchRoots implements CountryProvider
func (p *SQLProvider) FetchRoots(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT name FROM geo_countries ORDER BY ord`)
	if err != nil {
		return nil, Unavailable("fetch roots", err)
	}
	defer func() { _ = rows.Close() }()

	var roots []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, Unavailable("fetch roots", fmt.Errorf("scan: %w", err))
		}
		roots = append(roots, name)
	}
	if err := rows.Err(); err != nil {
		return nil, Unavailable("fetch roots", err)
	}
	return roots, nil
}

// FetchBranches implements CountryProvider
func (p *SQLProvider) FetchBranches(ctx context.Context, root string) (domain.Hierarchy, error) {
	q := fmt.Sprintf(`SELECT pr.name, c.name
		FROM geo_provinces pr
		LEFT JOIN geo_cities c ON c.country = pr.country AND c.province = pr.name
		WHERE pr.country = %s
		ORDER BY pr.ord, c.ord`, p.ph(1))
	rows, err := p.db.QueryContext(ctx, q, root)
	if err != nil {
		return domain.Hierarchy{}, Unavailable("fetch branches", err)
	}
	defer func() { _ = rows.Close() }()

	h, err := collectBranches(rows, func(city, province string) string {
		return domain.CityKey(city, province, root)
	})
	if err != nil {
		return domain.Hierarchy{}, Unavailable("fetch branches", err)
	}
	return h, nil
}

// collectBranches folds (branch, leaf) rows ordered by branch into nodes.
// A NULL leaf marks a branch without children.
func collectBranches(rows *sql.Rows, leafKey func(leaf, branch string) string) (domain.Hierarchy, error) {
	var nodes []domain.HierarchyNode
	for rows.Next() {
		var branch string
		var leaf sql.NullString
		if err := rows.Scan(&branch, &leaf); err != nil {
			return domain.Hierarchy{}, fmt.Errorf("scan: %w", err)
		}
		if len(nodes) == 0 || nodes[len(nodes)-1].Key != branch {
			nodes = append(nodes, domain.HierarchyNode{Key: branch, Leaves: []string{}})
		}
		if leaf.Valid {
			last := &nodes[len(nodes)-1]
			last.Leaves = append(last.Leaves, leafKey(leaf.String, branch))
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Hierarchy{}, err
	}
	return domain.NewHierarchy(nodes...), nil
}
