package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kienanstewart/insanity"
	"github.com/kienanstewart/insanity/internal/report"
	"github.com/spf13/cobra"
)

var (
	flagUse        string
	flagDatPath    string
	flagDB         string
	flagVerbose    bool
	flagShowUnused bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "insanity",
	Short:         "Cross-reference validation for a naev data tree",
	Long:          "Insanity scans the Lua scripts of a naev data tree for asset references (fleets, ships, outfits, universe diffs), checks each against the XML data definitions, and reports unresolved references and unused entities.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUse, "use", "u", "missionxml", "mission discovery: missionxml (active mission list) or rawfiles (walk dat/missions)")
	rootCmd.PersistentFlags().StringVar(&flagDatPath, "datpath", "", "data directory (default: <basepath>/dat)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "persist run results to a SQLite database at this path")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "emit a notice per processed script file")
	rootCmd.PersistentFlags().BoolVar(&flagShowUnused, "show-unused", false, "report entities never referenced from any script")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [basepath]",
	Short: "Validate script references against the data definitions",
	Long:  "Reads the data definitions, scans every discovered Lua script for the four asset-reference calls, prints a diagnostic per unresolved reference, and reports ships and outfits missing from every tech group.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	base, err := resolveBasePath(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(base, cmd)
	if err != nil {
		return err
	}
	res, err := runOnce(base, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Checked %d files (%d skipped, %d unresolved references) in %s\n",
		res.FilesScanned, res.FilesSkipped, len(res.Diagnostics),
		res.Finished.Sub(res.Started).Round(time.Millisecond))
	return nil
}

// runOnce builds an Engine from the configuration, runs it, and persists the
// result when a database path is configured. Shared by check and watch.
func runOnce(base string, cfg config) (*insanity.Result, error) {
	mode, err := insanity.ParseMode(cfg.Use)
	if err != nil {
		return nil, err
	}
	opts := []insanity.Option{
		insanity.WithMode(mode),
		insanity.WithVerbose(cfg.Verbose),
		insanity.WithShowUnused(cfg.ShowUnused),
	}
	if cfg.DatPath != "" {
		opts = append(opts, insanity.WithDatPath(cfg.DatPath))
	}

	engine, err := insanity.New(base, opts...)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run()
	if err != nil {
		return nil, err
	}

	if cfg.DB != "" {
		if err := persistRun(cfg.DB, res); err != nil {
			return nil, fmt.Errorf("persisting run: %w", err)
		}
	}
	return res, nil
}

// persistRun writes the run and its findings to the SQLite run store.
func persistRun(dbPath string, res *insanity.Result) error {
	store, err := report.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return err
	}

	runID, err := store.InsertRun(&report.Run{
		BasePath:     res.BasePath,
		StartedAt:    res.Started,
		FinishedAt:   res.Finished,
		FilesScanned: res.FilesScanned,
		FilesSkipped: res.FilesSkipped,
	})
	if err != nil {
		return err
	}

	for _, d := range res.Diagnostics {
		err := store.InsertDiagnostic(&report.Diagnostic{
			RunID:    runID,
			Call:     d.Kind.Label(),
			Argument: d.Argument,
			File:     d.File,
			Line:     d.Line,
			Offset:   d.Column,
		})
		if err != nil {
			return err
		}
	}

	for _, category := range []insanity.Category{
		insanity.Fleet, insanity.Unidiff, insanity.Ship, insanity.Outfit,
	} {
		for _, name := range res.Unused[category] {
			if err := store.InsertUnused(runID, string(category), name); err != nil {
				return err
			}
		}
		for _, name := range res.MissingTech[category] {
			if err := store.InsertMissingTech(runID, string(category), name); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveBasePath returns the absolute path of the naev tree to validate.
func resolveBasePath(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}
