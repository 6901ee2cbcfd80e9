package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/grocysync/importer/config"
	"github.com/grocysync/importer/internal/delivery/cli"
	"github.com/grocysync/importer/internal/domain"
	"github.com/grocysync/importer/internal/infrastructure/export"
	"github.com/grocysync/importer/internal/infrastructure/grocy"
	"github.com/grocysync/importer/internal/infrastructure/openfoodfacts"
	"github.com/grocysync/importer/internal/usecase"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfig      = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes one import run and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(stdout)

	fs := pflag.NewFlagSet("importer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "config file (INI or YAML, default "+config.DefaultConfigFile+" if present)")
	initConfig := fs.Bool("init-config", false, "write an example INI config and exit")
	doImport := fs.Bool("import", false, "write the file and import into Grocy")
	noImport := fs.Bool("no-import", false, "write the file only")
	fs.String("csv", "", "output path, .csv or .xlsx")
	fs.Int("limit", 0, "maximum number of new products")
	fs.String("grocy-url", "", "Grocy base URL")
	fs.String("api-key", "", "Grocy API key")
	fs.BoolP("debug", "d", false, "verbose logging")
	fs.Int64("seed", 0, "fixed random seed for reproducible searches")
	fs.Bool("random-subcats", false, "search random sub-terms per category")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitConfig
	}

	if *initConfig {
		path := *configFile
		if path == "" {
			path = config.DefaultConfigFile
		}
		if err := config.WriteExample(path); err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return exitFailure
		}
		log.Printf("[OK] Example config written: %s", path)
		return exitOK
	}

	cfg, err := config.Load(config.Options{ConfigFile: *configFile, Flags: fs})
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		if errors.Is(err, domain.ErrInvalidConfig) {
			return exitConfig
		}
		return exitFailure
	}
	cfg.ResolveImportMode(*doImport, *noImport)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := execute(ctx, cfg, stdout)
	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "[ERROR] interrupted")
		return exitInterrupted
	}
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		if errors.Is(err, domain.ErrInvalidConfig) {
			return exitConfig
		}
		return exitFailure
	}

	cli.WriteSummary(stdout, stats)
	return exitOK
}

// execute wires the clients into the import service and runs it
func execute(ctx context.Context, cfg *config.Config, stdout io.Writer) (*domain.RunStats, error) {
	var rng *rand.Rand
	if cfg.Search.Seed != nil {
		rng = rand.New(rand.NewSource(*cfg.Search.Seed))
		log.Printf("[INFO] Random seed set: %d", *cfg.Search.Seed)
	}

	fmt.Fprintln(stdout, cli.ModeLine(cfg.Import.Enabled))
	if cfg.Search.RandomSubcategories {
		log.Printf("[INFO] Random sub-terms enabled")
	}

	searcher := openfoodfacts.NewClient(cfg.Search.BaseURL, cfg.Search.Country, cfg.Search.Language)
	searcher.SetRequestsPerMinute(cfg.Search.RequestsPerMinute)
	searcher.SetDebug(cfg.Debug)

	inventory := grocy.NewClient(cfg.Grocy.APIKey, cfg.Grocy.URL)
	inventory.SetDebug(cfg.Debug)

	service := usecase.NewImportService(
		searcher,
		inventory,
		export.NewWriter(cfg.Output.Path),
		rng,
		usecase.ImportServiceConfig{
			Language:       searcher.Language(),
			Limit:          cfg.Output.Limit,
			RandomSubterms: cfg.Search.RandomSubcategories,
			Import:         cfg.Import.Enabled,
			UnitName:       cfg.Import.Unit,
			LocationName:   cfg.Import.Location,
			FetchDelay:     cfg.Search.FetchDelay,
			CreateDelay:    cfg.Import.CreateDelay,
			Debug:          cfg.Debug,
		},
	)

	stats, err := service.Run(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[OK] Output written: %s", cfg.Output.Path)
	return stats, nil
}
