// Command seed loads dustbins into the database from a GeoJSON
// FeatureCollection of Point features. Feature properties "name" and
// "address" map onto the bin columns; features without a name get a
// numbered default.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"findbin_backend/internal/bins/repository"
	"findbin_backend/platform/config"
	"findbin_backend/platform/db"
	"findbin_backend/platform/geo"
	"findbin_backend/platform/logger"
)

func main() {
	file := flag.String("file", "", "path to a GeoJSON FeatureCollection of dustbin points")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -file dustbins.geojson")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	if err := run(context.Background(), cfg, log, *file); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, file string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	collection, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	repo := repository.New(pool)

	inserted, skipped := 0, 0
	for i, feature := range collection.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			log.Warn("skipping non-point feature", "index", i)
			skipped++
			continue
		}

		location, err := geo.FromOrb(point)
		if err != nil {
			log.Warn("skipping out-of-range feature", "index", i)
			skipped++
			continue
		}

		name := feature.Properties.MustString("name", fmt.Sprintf("Dustbin %d", i+1))
		var address *string
		if value := feature.Properties.MustString("address", ""); value != "" {
			address = &value
		}

		if _, err := repo.Create(ctx, repository.CreateParams{
			Name:     name,
			Address:  address,
			Location: location,
		}); err != nil {
			return fmt.Errorf("insert feature %d: %w", i, err)
		}
		inserted++
	}

	log.Info("seed complete", "inserted", inserted, "skipped", skipped)
	return nil
}
