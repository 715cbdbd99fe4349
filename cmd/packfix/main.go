package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkarren/packfix/internal/config"
	"github.com/mkarren/packfix/internal/repair"
)

func main() {
	// Command line flags
	var (
		dirFlag      = flag.String("dir", "", "Directory to scan (default: current directory)")
		configFlag   = flag.String("config", "", "Path to config file")
		noBackupFlag = flag.Bool("no-backup", false, "Do not create backup copies before repairing")
		dryRunFlag   = flag.Bool("dry-run", false, "Inspect packs without modifying anything")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		jobsFlag     = flag.Int("jobs", 0, "Max packs repaired in parallel (overrides config)")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *noBackupFlag {
		settings.CreateBackups = false
	}
	if *jobsFlag > 0 {
		settings.MaxConcurrentRepairs = *jobsFlag
	}

	// Target directory: -dir flag, first positional argument, or cwd
	dir := *dirFlag
	if dir == "" && flag.NArg() > 0 {
		dir = flag.Arg(0)
	}
	if dir == "" {
		dir = "."
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := repair.NewManager(settings, func(event repair.ProgressEvent) {
		if event.Level == repair.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case repair.LevelError:
			prefix = "❌ "
		case repair.LevelWarning:
			prefix = "⚠️  "
		case repair.LevelSuccess:
			prefix = "✅ "
		case repair.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})
	manager.SetDryRun(*dryRunFlag)

	fmt.Println("📦 packfix — #missing → #0 pack repairer")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Scan(ctx, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning directory: %v\n", err)
		os.Exit(1)
	}

	if len(manager.PackNames()) == 0 {
		fmt.Println("No packages to process.")
		return
	}

	fmt.Println()
	if err := manager.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nRepair cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during repair: %v\n", err)
		os.Exit(1)
	}

	printSummary(manager.Summary(), *dryRunFlag)
}

func printSummary(summary repair.Summary, dryRun bool) {
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Done! Scanned %d, repaired %d, clean %d, skipped %d, failed %d\n",
		summary.Scanned, summary.Repaired, summary.Clean, summary.Skipped, summary.Failed)
	if summary.EntriesFixed > 0 {
		fmt.Printf("   Entries fixed: %d\n", summary.EntriesFixed)
	}

	if len(summary.RepairedPacks) > 0 {
		fmt.Println()
		fmt.Println("Repaired packs:")
		for _, name := range summary.RepairedPacks {
			fmt.Printf("   ✓ %s\n", name)
		}
	}

	if len(summary.FailedPacks) > 0 {
		fmt.Println()
		fmt.Println("Failed packs:")
		for _, line := range summary.FailedPacks {
			fmt.Printf("   ✗ %s\n", line)
		}
	}

	if dryRun {
		fmt.Println()
		fmt.Println("[Dry run — no files were modified]")
	}
}
