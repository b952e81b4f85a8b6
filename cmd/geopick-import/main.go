// Command geopick-import loads a location dataset into the SQLite or Postgres
// store read by the picker's sql providers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"geopick/internal/config"
	"geopick/internal/hierarchy"
)

func main() {
	var (
		from   string
		kind   string
		target string
	)
	flag.StringVar(&from, "from", "", "TOML dataset to import (default: builtin dataset)")
	flag.StringVar(&kind, "to", hierarchy.KindSQLite, "Store kind: sqlite or postgres")
	flag.StringVar(&target, "target", "", "SQLite file or Postgres DSN (default from $"+config.EnvProviderPath+" / $"+config.EnvProviderDSN+")")
	flag.Parse()

	if err := config.LoadEnvFile(".env"); err != nil {
		log.Printf("Ignoring .env: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, from, kind, target); err != nil {
		fmt.Fprintf(os.Stderr, "geopick-import: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, from, kind, target string) error {
	var (
		data hierarchy.Dataset
		err  error
	)
	if from == "" {
		data, err = hierarchy.BuiltinDataset()
	} else {
		data, err = hierarchy.LoadDatasetFile(from)
	}
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	var driver string
	switch kind {
	case hierarchy.KindSQLite:
		driver = hierarchy.DriverSQLite
		if target == "" {
			target = os.Getenv(config.EnvProviderPath)
		}
	case hierarchy.KindPostgres:
		driver = hierarchy.DriverPostgres
		if target == "" {
			target = os.Getenv(config.EnvProviderDSN)
		}
	default:
		return fmt.Errorf("unknown store kind %q", kind)
	}

	store, err := hierarchy.OpenSQL(ctx, driver, target)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Import(ctx, data); err != nil {
		return err
	}

	cities := 0
	for _, c := range data.Countries {
		for _, p := range c.Provinces {
			cities += len(p.Cities)
		}
	}
	fmt.Printf("Imported %d regions, %d countries, %d cities\n", len(data.Regions), len(data.Countries), cities)
	return nil
}
