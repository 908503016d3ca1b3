package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yungbote/bexps-backend/internal/app"
	"github.com/yungbote/bexps-backend/internal/services"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "seed.yaml", "YAML file with buildings, locations, users and element types")
	flag.Parse()

	if err := run(context.Background(), path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

// run returns after the app is closed, so callers may exit on error.
func run(ctx context.Context, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	doc, err := services.ParseSeed(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	application, err := app.New()
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	sum, err := services.ApplySeed(ctx, application.Log, application.Services.Catalog, doc)
	if err != nil {
		application.Log.Error("Seed failed", "error", err)
		return err
	}
	fmt.Fprintf(out, "buildings created: %d, locations created: %d, users: %d, element types: %d\n",
		sum.Buildings, sum.Locations, sum.Users, sum.ElementTypes)
	return nil
}
