package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/traceprint/traceprint/internal/config"
	"github.com/traceprint/traceprint/internal/database"
	"github.com/traceprint/traceprint/internal/log"
	"github.com/traceprint/traceprint/internal/model"
	"github.com/traceprint/traceprint/internal/pipeline"
	"github.com/traceprint/traceprint/internal/probe"
	"github.com/traceprint/traceprint/internal/report"
	"github.com/traceprint/traceprint/internal/tor"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [handle...]",
		Short: "Scan public platforms for a username or email address",
		Long: `Scan probes public platforms for profiles matching a username or email
address and reports the resulting identity exposure.

For each handle it:
- Probes the platform catalog with one request per platform
- Checks email deliverability and Gravatar presence (email handles)
- Normalizes findings into a single exposure record
- Correlates identifiers across platforms
- Flags anomaly heuristics (impersonation, bot likelihood, coordination)
- Scores risk with exposure thresholds and a weighted ensemble

Examples:
  # Scan a single username
  traceprint scan alice

  # Scan an email address
  traceprint scan alice@example.com

  # Scan multiple handles concurrently
  traceprint scan alice bob carol

  # Probe only selected platforms
  traceprint scan --platforms github,twitter alice

  # Route probes through an embedded Tor daemon
  traceprint scan --tor alice

  # Use an existing SOCKS5 proxy instead
  traceprint scan --proxy 127.0.0.1:9050 alice

  # Output a JSON report to a file
  traceprint scan --json -o report.json alice`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Probe behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each probe request")
	cmd.Flags().DurationP("delay", "d", config.DefaultRequestDelay,
		"Fixed delay between consecutive probes")
	cmd.Flags().IntP("max-platforms", "p", 0,
		"Maximum number of platforms to probe (0 = whole catalog)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with probe requests")
	cmd.Flags().StringSlice("platforms", nil,
		"Probe only the named platforms (comma-separated; unknown names are reported as invalid_platform)")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans when multiple handles are given")

	// Network routing flags
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and route probes through it")
	cmd.Flags().String("proxy", "",
		"Route probes through an external SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .traceprint.yaml in current or XDG config directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not save scan summaries to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory for the scan-history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	// Build config from the config file and flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with sensitive-value masking
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and cobra flags.
// Precedence: built-in defaults, then the config file, then explicitly set
// flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Apply the config file before flags so explicit flags win
	if found := config.FindConfigFile(configPath); found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cf.ApplyTo(cfg)
		cfg.ConfigFilePath = found
	} else if configPath != "" {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("delay") {
		if cfg.RequestDelay, err = cmd.Flags().GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-platforms") {
		if cfg.MaxPlatforms, err = cmd.Flags().GetInt("max-platforms"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("platforms") {
		if cfg.PlatformNames, err = cmd.Flags().GetStringSlice("platforms"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("batch") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
			return nil, err
		}
	}

	cfg.UseTor, err = cmd.Flags().GetBool("tor")
	if err != nil {
		return nil, err
	}
	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}
	cfg.TorStartupTimeout, err = cmd.Flags().GetDuration("tor-timeout")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the handles to scan
	cfg.Handles = args

	return cfg, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Handles) == 0 {
		return errors.New("no handles provided (specify one or more usernames or email addresses as arguments)")
	}

	logger.Info("starting scan",
		"handles", len(cfg.Handles),
		"platforms", len(cfg.Platforms),
		"useTor", cfg.UseTor,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client, cleanup, err := buildHTTPClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Use batch processor for parallel scanning if multiple handles
	if len(cfg.Handles) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, client, db, logger)
	}

	// Single handle or sequential scanning
	return runSequentialScan(ctx, cfg, client, db, logger)
}

// buildHTTPClient returns the HTTP client probes go through, plus a cleanup
// function. Direct connections are the default; --tor starts an embedded
// daemon and --proxy routes through an existing SOCKS5 proxy.
func buildHTTPClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Client, func(), error) {
	noop := func() {}

	switch {
	case cfg.UseTor:
		torClient, embedded, err := startEmbeddedTor(ctx, cfg, logger)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			logger.Info("stopping embedded Tor daemon...")
			if err := embedded.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}
		return torClient.NewHTTPClient(), cleanup, nil

	case cfg.ProxyAddress != "":
		torClient, err := tor.NewClient(cfg.ProxyAddress, cfg.Timeout)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create proxy client: %w", err)
		}

		status := torClient.CheckConnection(ctx)
		if status != tor.ProxyStatusOK {
			return nil, noop, fmt.Errorf("proxy check failed: %s (make sure a SOCKS5 proxy is running at %s)",
				status, cfg.ProxyAddress)
		}

		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
		return torClient.NewHTTPClient(), noop, nil

	default:
		return &http.Client{Timeout: cfg.Timeout}, noop, nil
	}
}

// startEmbeddedTor starts an embedded Tor daemon using tornago.
// Returns the Tor client and embedded Tor manager on success.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*tor.Client, *tor.EmbeddedTor, error) {
	fmt.Println("Starting embedded Tor daemon...")
	fmt.Printf("This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embeddedTor := tor.NewEmbeddedTor(
		tor.WithStartupTimeout(cfg.TorStartupTimeout),
	)

	// Start the embedded Tor daemon
	if err := embeddedTor.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	logger.Info("embedded Tor daemon started",
		"socksAddr", embeddedTor.SocksAddr(),
		"controlAddr", embeddedTor.ControlAddr(),
	)

	fmt.Printf("Embedded Tor daemon started successfully!\n")
	fmt.Printf("SOCKS proxy: %s\n\n", embeddedTor.SocksAddr())

	// Create a client using the embedded Tor's SOCKS proxy
	client, err := embeddedTor.NewClient(cfg.Timeout)
	if err != nil {
		_ = embeddedTor.Stop() //nolint:errcheck // Best effort cleanup
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}

	// Verify the connection
	status := client.CheckConnection(ctx)
	if status != tor.ProxyStatusOK {
		_ = embeddedTor.Stop() //nolint:errcheck // Best effort cleanup
		return nil, nil, fmt.Errorf("embedded Tor proxy check failed: %s", status)
	}

	return client, embeddedTor, nil
}

// createPipeline creates a pipeline for one scan.
// In sequential mode a progress observer prints one line per probe.
func createPipeline(client *http.Client, logger *slog.Logger, cfg *config.Config, showProgress bool) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	var probeOpts []probe.Option
	if showProgress {
		probeOpts = append(probeOpts, probe.WithObserver(func(platform string, status model.ProbeStatus, found bool) {
			switch {
			case found:
				fmt.Printf("  [+] %s: profile found\n", platform)
			case status == model.StatusNotFound:
				fmt.Printf("  [ ] %s: not found\n", platform)
			default:
				fmt.Printf("  [?] %s: %s\n", platform, status)
			}
		}))
	}

	return pipeline.DefaultPipeline(client, cfg, pipelineOpts, probeOpts...)
}

// runSequentialScan scans handles one at a time with per-probe progress.
func runSequentialScan(ctx context.Context, cfg *config.Config, client *http.Client, db *database.ScanDB, logger *slog.Logger) error {
	for _, handle := range cfg.Handles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipeline(client, logger, cfg, true)

		scanReport := model.NewScanReport(handle)

		fmt.Printf("Scanning %s...\n", handle)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, scanReport); err != nil {
			logger.Error("scan failed", "handle", handle, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", handle, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "handle", handle, "error", err)
		}

		// Save to database if enabled
		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "handle", handle, "error", err)
		}
	}

	return nil
}

// runBatchScan scans multiple handles concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, client *http.Client, db *database.ScanDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d handles (concurrency: %d)...\n\n",
		len(cfg.Handles), cfg.BatchSize)

	startTime := time.Now()

	// Create batch processor with pipeline factory
	// Per-probe progress lines are suppressed in batch mode because
	// interleaved output from concurrent scans would be unreadable.
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipeline(client, logger, cfg, false)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Handles, func(scanReport *model.ScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Scan completed: %s\n", index+1, len(cfg.Handles), scanReport.Handle)

		// Generate and output report
		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "handle", scanReport.Handle, "error", err)
		}

		// Save to database if enabled
		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "handle", scanReport.Handle, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// outputReport outputs the scan report in the requested format.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600)
		// Reports may contain sensitive information that should only be readable by the owner
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (detailed report with all data)
	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(scanReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(scanReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(scanReport)
	return err
}

// saveScanReport saves the scan report to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanReport(ctx context.Context, db *database.ScanDB, scanReport *model.ScanReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveScanReport(ctx, scanReport); err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan report saved to database", "handle", scanReport.Handle)
	return nil
}
