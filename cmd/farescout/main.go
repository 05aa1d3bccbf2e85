package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"farescout/internal/browser"
	"farescout/internal/config"
	"farescout/internal/form"
	"farescout/internal/session"
	"farescout/internal/storage"
	"farescout/internal/types"
)

var (
	cfgFile string
	verbose bool

	origin          string
	destination     string
	originSlug      string
	destinationSlug string
	departureDate   string
	returnDate      string
	outputPath      string
	outputType      string
	headless        bool
	maxWaitSeconds  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "farescout",
		Short: "Flight-offer extraction for Enuygun search results",
		Long: `farescout automates a flight-price search, extracts structured offers
from the rendered result cards, and persists them for later analysis.

The extractor tolerates unversioned markup through ranked selector
fallbacks: when interactive form filling fails, the search escalates to
direct-URL navigation before giving up.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Search a route and extract the offers",
		Long:  "Run one flight search for the given route and dates, extract every well-formed offer card, and write the result set to the output destination.",
		RunE:  runScrape,
	}

	cmd.Flags().StringVar(&origin, "origin", "İstanbul", "origin city or airport name")
	cmd.Flags().StringVar(&destination, "destination", "Lefkoşa", "destination city or airport name")
	cmd.Flags().StringVar(&originSlug, "origin-slug", "", "slug override for origin on direct-URL navigation")
	cmd.Flags().StringVar(&destinationSlug, "destination-slug", "", "slug override for destination on direct-URL navigation")
	cmd.Flags().StringVar(&departureDate, "departure-date", time.Now().Format(types.DateFormat), "departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&returnDate, "return-date", "", "return date (YYYY-MM-DD, optional)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: csv, json, mongodb")
	cmd.Flags().BoolVar(&headless, "headless", false, "run the browser headless")
	cmd.Flags().IntVar(&maxWaitSeconds, "max-wait", 0, "maximum wait for dynamic elements (seconds, 0 = config default)")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Dates fail fast, before any browser interaction.
	query, err := buildQuery()
	if err != nil {
		return err
	}

	logger.Info("starting search",
		"origin", query.Origin,
		"destination", query.Destination,
		"departure_date", query.DepartureDate.Format(types.DateFormat),
		"round_trip", query.RoundTrip(),
		"output", cfg.Storage.OutputPath,
		"format", cfg.Storage.Type,
	)

	ctx := context.Background()

	store, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer store.Close()

	sess, err := browser.Launch(cfg.Browser, logger)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	// The browser is torn down on every exit path, including panics in
	// extraction.
	defer sess.Close()

	sequencer := form.New(sess.Page(), cfg.Search.MaxWait, logger)
	orchestrator := session.New(sess, sequencer, store, cfg.Search.BaseURL, logger)

	result, err := orchestrator.Run(ctx, query)
	if err != nil {
		return err
	}

	dest := cfg.Storage.OutputPath
	if cfg.Storage.Type == "mongodb" {
		dest = cfg.Storage.MongoDatabase + "." + cfg.Storage.MongoCollection
	}
	fmt.Printf("Saved %d flights to %s\n", result.Offers, dest)
	if result.UsedFallback {
		fmt.Println("Note: interactive form filling failed; results came from direct-URL navigation.")
	}
	return nil
}

// buildQuery validates the date flags and assembles the immutable query.
func buildQuery() (types.SearchQuery, error) {
	dep, err := config.ParseDate(departureDate)
	if err != nil {
		return types.SearchQuery{}, err
	}
	q := types.SearchQuery{
		Origin:          origin,
		Destination:     destination,
		OriginSlug:      originSlug,
		DestinationSlug: destinationSlug,
		DepartureDate:   dep,
	}
	if returnDate != "" {
		ret, err := config.ParseDate(returnDate)
		if err != nil {
			return types.SearchQuery{}, err
		}
		q.ReturnDate = ret
	}
	return q, nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("farescout %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Search:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Search.BaseURL)
			fmt.Printf("  Max Wait:          %s\n", cfg.Search.MaxWait)
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Window Size:       %s\n", cfg.Browser.WindowSize)
			fmt.Printf("  Language:          %s\n", cfg.Browser.Language)
			fmt.Printf("  Page Load Timeout: %s\n", cfg.Browser.PageLoadTimeout)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			fmt.Printf("\nLogging:\n")
			fmt.Printf("  Level:             %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:            %s\n", cfg.Logging.Format)
			return nil
		},
	}
}

// setupLogger creates a structured logger on stderr.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cmd *cobra.Command, cfg *config.Config) {
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = outputType
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if maxWaitSeconds > 0 {
		cfg.Search.MaxWait = time.Duration(maxWaitSeconds) * time.Second
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}
