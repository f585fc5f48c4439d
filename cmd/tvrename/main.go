package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tvrename/internal/app"
	"github.com/Nomadcxx/tvrename/internal/config"
	"github.com/Nomadcxx/tvrename/internal/logging"
	"github.com/Nomadcxx/tvrename/internal/meta"
	"github.com/Nomadcxx/tvrename/internal/paths"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"

	cfgFile    string
	verbose    bool
	dryRun     bool
	batch      bool
	recursive  bool
	moveFiles  bool
	forceName  string
	seriesID   int
	seriesData string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tvrename [paths...]",
		Short: "Rename TV episode files from their embedded season/episode info",
		Long: `tvrename parses unstructured episode filenames (scrubs.s01e01.avi,
show.2009.06.05.avi, show - e23.avi), optionally looks up canonical
series and episode names, and renames the files to a configurable
template. With move enabled it also relocates them into a library
layout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRename,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/tvrename/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "preview changes without touching files")

	rootCmd.Flags().BoolVarP(&batch, "batch", "b", false, "no prompts, rename everything")
	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.Flags().BoolVar(&moveFiles, "move", false, "move renamed files to the configured destination")
	rootCmd.Flags().StringVar(&forceName, "name", "", "override the parsed series name")
	rootCmd.Flags().IntVar(&seriesID, "series-id", 0, "look the series up by id instead of name")
	rootCmd.Flags().StringVar(&seriesData, "series-data", "", "JSON file with series/episode metadata")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	// Flags override the config file.
	if cmd.Flags().Changed("batch") && batch {
		cfg.Behavior.Batch = true
		cfg.Behavior.SelectFirst = true
		cfg.Behavior.AlwaysRename = true
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Scan.Recursive = recursive
	}
	if cmd.Flags().Changed("move") {
		cfg.Move.Enable = moveFiles
	}
	if forceName != "" {
		cfg.Behavior.ForceName = forceName
	}
	if seriesID != 0 {
		cfg.Behavior.SeriesID = seriesID
	}
	if dryRun {
		cfg.Behavior.DryRun = true
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *logging.Logger {
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return logging.Nop()
	}
	return log
}

// newClient assembles the metadata client: the series-data file when
// given, wrapped in the SQLite cache when enabled.
func newClient(cfg *config.Config) (meta.Client, func(), error) {
	if seriesData == "" {
		return nil, func() {}, nil
	}

	order := meta.Order(cfg.Behavior.Order)
	client, err := meta.LoadFile(seriesData, order)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Cache.Enabled {
		return client, func() {}, nil
	}

	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath, err = paths.CachePath()
		if err != nil {
			return nil, nil, err
		}
	}
	cached, err := meta.OpenCache(cachePath, client, order)
	if err != nil {
		return nil, nil, err
	}
	return cached, func() { cached.Close() }, nil
}

func runRename(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	defer log.Close()

	client, closeClient, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	var prompter app.Prompter
	switch {
	case cfg.Behavior.DryRun:
		prompter = app.AutoNo{}
	case cfg.Behavior.Batch:
		prompter = app.AutoYes{}
	default:
		prompter = &stdinPrompter{in: os.Stdin, out: os.Stdout}
	}

	processor, err := app.NewProcessor(cfg, log, client, prompter)
	if err != nil {
		return err
	}

	results, runErr := processor.Run(args)
	if len(results) > 0 {
		fmt.Println(renderResults(results, cfg.Behavior.DryRun))
	}

	if runErr != nil {
		if errors.Is(runErr, app.ErrUserAbort) {
			fmt.Println("aborted")
			return nil
		}
		return runErr
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tvrename %s\n", version)
		},
	}
}
