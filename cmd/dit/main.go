// Package main is the entry point for the Delivery Insight TUI. It loads
// configuration, wires the report services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"delivery-insight-tui/internal/app"
	"delivery-insight-tui/internal/config"
	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/logger"
	"delivery-insight-tui/internal/services"
	"delivery-insight-tui/internal/ui/tabs/monthly"
	"delivery-insight-tui/internal/ui/tabs/performance"
	"delivery-insight-tui/internal/ui/tabs/routes"
	"delivery-insight-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	if err := logger.RedirectToFile(cfg.LogPath); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	initial, err := startupFilter(cfg, os.Args[1:])
	if err != nil {
		return err
	}

	state := app.NewState(initial)
	model := app.NewModel(svcManager, state)

	tabs := []app.Tab{
		performance.New(state), // Tab 0: delivery performance summary
		monthly.New(state),     // Tab 1: monthly trend
		routes.New(state),      // Tab 2: busiest routes
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// startupFilter resolves the initial filter. A query string passed as an
// argument wins over the VIEW environment setting; with neither, the app
// opens on the default trailing window.
func startupFilter(cfg *config.Config, args []string) (filter.State, error) {
	query := cfg.View
	for _, arg := range args {
		if strings.HasPrefix(arg, "?") || strings.Contains(arg, "=") {
			query = arg
			break
		}
	}

	if query == "" {
		return filter.Default(time.Now()), nil
	}

	f, err := filter.Decode(strings.TrimPrefix(query, "?"))
	if err != nil {
		return filter.State{}, fmt.Errorf("invalid view query %q: %w", query, err)
	}
	return f, nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Delivery Insight TUI - delivery performance analytics

Usage:
  dit [flags] [view-query]

A view query restores a shared view, e.g.:
  dit "?startDate=2024-05-01T00:00:00Z&endDate=2024-06-01T00:00:00Z&reportType=routes"

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Performance, Monthly, Routes)
  Tab/Shift+Tab   Navigate between tabs
  f               Edit the date range and office filter
  c               Show the current view query string
  j/k, Up/Down    Navigate lists
  r               Refresh the report
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  API_BASE_URL        Report service base URL
  RECORDS_PATH        Local consignment records JSON file
  DATABASE_PATH       SQLite cache path
  LOG_PATH            Log file path
  ON_TIME_THRESHOLD   On-time cutoff (default: 24h)
  REQUEST_TIMEOUT     Request timeout (default: 15s)
  VIEW                Startup view query string

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/delivery-insight/.env`)
}
