// Seed script for loading atoms into the configured atom space.
// Run with: go run ./scripts/seed.go facts.scm [more.scm ...]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alito/opencog/internal/config"
	"github.com/alito/opencog/internal/sexpr"
	"github.com/alito/opencog/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s FILE.scm...", os.Args[0])
	}
	_ = config.Load()

	ctx := context.Background()
	opened, err := store.Open(ctx, store.Settings{
		Driver:      config.AtomSpaceDriver(),
		DatabaseURL: config.DatabaseURL(),
		SQLitePath:  config.SQLitePath(),
	})
	if err != nil {
		log.Fatalf("Failed to open atom space: %v", err)
	}
	defer opened.Close()

	fmt.Printf("Using %s atom space\n", config.AtomSpaceDriver())

	total := 0
	for _, path := range os.Args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		atoms, err := sexpr.Parse(ctx, opened.Space, string(data))
		if err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		fmt.Printf("  %s: %d atoms\n", path, len(atoms))
		total += len(atoms)
	}

	n, err := opened.Space.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count atoms: %v", err)
	}
	fmt.Printf("Loaded %d top-level atoms; space now holds %d\n", total, n)
}
