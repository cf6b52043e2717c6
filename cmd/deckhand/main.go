package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fissileworks/deckhand/internal/config"
	"github.com/fissileworks/deckhand/internal/run"
	"github.com/fissileworks/deckhand/internal/status"
)

// CLI flags parsed from command line.
type cliFlags struct {
	File    string
	Flavor  string
	Status  bool
	Force   bool
	NoWatch bool
	Verbose bool
	Version bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := runCLI(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("deckhand", flag.ContinueOnError)
	fs.StringVar(&flags.File, "file", "", "deck basename; artifacts derive from it (<file>.inp, <file>.out, ...)")
	fs.StringVar(&flags.Flavor, "flavor", "", "engine flavor: v6, v5 or x")
	fs.BoolVar(&flags.Status, "status", false, "inspect prior-run artifacts and exit")
	fs.BoolVar(&flags.Force, "force", false, "launch even when a completed identical run exists")
	fs.BoolVar(&flags.NoWatch, "no-watch", false, "do not watch the output log after launch")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}
	if flags.File == "" {
		return fmt.Errorf("-file is required")
	}
	name := strings.TrimSuffix(flags.File, ".inp")

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if flags.Flavor == "" {
		flags.Flavor = cfg.Flavor
	}
	if flags.Flavor == "" {
		flags.Flavor = "v6"
	}

	if flags.Status {
		fmt.Print(status.Format(status.Inspect(name, cfg.Marker)))
		return nil
	}

	logger, err := newLogger(flags.Verbose || cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	arts := run.ArtifactsFor(name)
	content, err := os.ReadFile(arts.Input)
	if err != nil {
		return fmt.Errorf("reading deck %s: %w", arts.Input, err)
	}

	coord := run.NewCoordinator(run.Config{
		Flavor:       flags.Flavor,
		Lookup:       &run.FSLookup{Name: name, Marker: cfg.Marker},
		Notifier:     &run.LogNotifier{Log: logger},
		Logger:       logger,
		Binaries:     cfg.Binaries,
		RemoteParams: cfg.RemoteParams,
		Marker:       cfg.Marker,
		PollInterval: time.Duration(cfg.PollSeconds) * time.Second,
		StallTimeout: time.Duration(cfg.StallSeconds) * time.Second,
	})

	// The deck title is the first line of the file.
	title := strings.SplitN(string(content), "\n", 2)[0]
	identity := run.IdentityFor(title, string(content))
	if !flags.Force {
		decision, err := coord.Decide(identity)
		if err != nil {
			return err
		}
		if decision == run.Skip {
			fmt.Printf("%s already has a completed run with identical input; nothing to do\n", name)
			return nil
		}
	}

	r, err := coord.Launch(name, title, string(content))
	if err != nil {
		return err
	}
	fmt.Printf("launched %s\n", r.Invocation.CommandLine())

	if flags.NoWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := coord.Watch(ctx, r); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
