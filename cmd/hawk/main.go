// # cmd/hawk/main.go
package main

import (
	"flag"
	"fmt"
	"hawk/internal/config"
	"hawk/internal/history"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	configPath = flag.String("config", "./hawk.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single scan and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode")
	trends     = flag.Duration("trends", 0, "Print a trend report for the given window and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("hawk v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./hawk.toml" {
			cfg, err = config.Load("./hawk.example.toml")
		}
		if err != nil {
			slog.Warn("no config file, using defaults", "error", err)
			cfg = config.Default()
		}
	}

	if flag.NArg() > 0 {
		cfg.WatchPaths = []string{flag.Arg(0)}
	}

	if *trends > 0 {
		if err := printTrends(cfg, *trends); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	// Initial scan
	if err := app.InitialScan(); err != nil {
		slog.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	if !*ui {
		app.PrintSummary(0)
	}
	app.SaveSnapshot()

	if *once {
		app.Shutdown()
		os.Exit(0)
	}

	// Watch mode
	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "hawk", "hawk.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "hawk", "hawk.log")
	}

	return "hawk.log"
}

func printTrends(cfg *config.Config, window time.Duration) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.LoadSnapshots(time.Now().Add(-window))
	if err != nil {
		return err
	}
	report, err := history.BuildTrendReport(snapshots, window)
	if err != nil {
		return err
	}
	fmt.Print(formatTrendReport(report))
	return nil
}

func formatTrendReport(report history.TrendReport) string {
	var b strings.Builder

	b.WriteString("Trend Report\n")
	b.WriteString("============\n")
	b.WriteString(fmt.Sprintf("Window: %s (%d scans, %s .. %s)\n\n",
		report.Window, report.ScanCount,
		report.Since.Format(time.RFC3339), report.Until.Format(time.RFC3339)))

	for _, p := range report.Points {
		b.WriteString(fmt.Sprintf("%s  docs=%d (%+d)  edges=%d (%+d)  funcs=%d (%+d)  errors=%d (%+d, avg %.2f)  warnings=%d (%+d, avg %.2f)\n",
			p.Timestamp.Format("2006-01-02 15:04:05"),
			p.DocumentCount, p.DeltaDocuments,
			p.IncludeEdges, p.DeltaEdges,
			p.FunctionCount, p.DeltaFunctions,
			p.ErrorCount, p.DeltaErrors, p.AvgErrors,
			p.WarningCount, p.DeltaWarnings, p.AvgWarnings))
	}

	return b.String()
}
