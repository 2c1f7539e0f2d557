// Package main provides a one-shot migration tool for legacy profile data.
//
// It lifts legacy highlight runs, race lists, and rotation shoe entries
// into first-class records. Runs are read-only unless -f is given.
//
// Usage:
//
//	go run ./cmd/migrate --all-profiles          # dry run, every profile
//	go run ./cmd/migrate --profile jane-runner   # dry run, one profile
//	go run ./cmd/migrate -f --all-profiles       # apply writes
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsrunapp/vsrun-server/internal/config"
	"github.com/vsrunapp/vsrun-server/internal/logger"
	"github.com/vsrunapp/vsrun-server/internal/reconcile"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

type slugList []string

func (s *slugList) String() string { return strings.Join(*s, ",") }

func (s *slugList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	force       = flag.Bool("f", false, "Apply writes (default is a dry run)")
	allProfiles = flag.Bool("all-profiles", false, "Migrate every profile in the store")
	profiles    slugList
)

func main() {
	flag.Var(&profiles, "profile", "Profile slug to migrate (repeatable)")

	// LoadConfig registers the shared config flags and calls flag.Parse.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if !*allProfiles && len(profiles) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: pass --all-profiles or one or more --profile flags")
		os.Exit(1)
	}
	if *allProfiles && len(profiles) > 0 {
		fmt.Fprintln(os.Stderr, "--all-profiles and --profile are mutually exclusive")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Writer:      os.Stderr,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	s, err := store.New(filepath.Join(cfg.Data.BasePath, "db"), log.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	m := reconcile.NewMigrator(s, log.Logger, reconcile.Options{
		DryRun:          !*force,
		HighlightPolicy: reconcile.MatchByName,
	})

	ctx := context.Background()
	var res *reconcile.Result
	if *allProfiles {
		res, err = m.RunAll(ctx)
	} else {
		res, err = m.RunSlugs(ctx, profiles)
	}

	if res != nil {
		mode := "dry run"
		if *force {
			mode = "applied"
		}
		fmt.Printf("migration %s: %d profiles\n", mode, res.Profiles)
		fmt.Printf("  highlight runs created: %d\n", res.HighlightsCreated)
		fmt.Printf("  races created:          %d\n", res.RacesCreated)
		fmt.Printf("  shoes created:          %d\n", res.ShoesCreated)
		fmt.Printf("  shoes linked:           %d\n", res.ShoesLinked)
		if len(res.Failed) > 0 {
			fmt.Printf("  failed profiles:        %s\n", strings.Join(res.Failed, ", "))
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration error: %v\n", err)
		os.Exit(1)
	}
}
