package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/ajramos/tuirobot/internal/config"
	"github.com/ajramos/tuirobot/internal/journal"
	"github.com/ajramos/tuirobot/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errUsage is returned after usage has been printed.
var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tuirobot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPathFlag := fs.String("config", "", "Path to YAML configuration file (default: ~/.config/tuirobot/config.yaml)")
	versionFlag := fs.Bool("version", false, "Show version information and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  tuirobot [options] <command>\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  config                          Print the effective configuration\n")
		fmt.Fprintf(stderr, "  journal --db path [--session id] List sessions, or the events and searches of one\n\n")
		fmt.Fprintf(stderr, "Examples:\n")
		fmt.Fprintf(stderr, "  tuirobot config                     # Show defaults merged with the config file\n")
		fmt.Fprintf(stderr, "  tuirobot --config ci.yaml config    # Validate a custom configuration\n")
		fmt.Fprintf(stderr, "  tuirobot journal                    # List recorded sessions\n")
		fmt.Fprintf(stderr, "  tuirobot journal --session <id>     # Show what one session saw\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fmt.Fprintf(stderr, "  --config string\n        %s\n", "Path to YAML configuration file (default: ~/.config/tuirobot/config.yaml)")
		fmt.Fprintf(stderr, "  --version\n        %s\n\n", "Show version information and exit")
		fmt.Fprintf(stderr, "Environment Variables:\n")
		fmt.Fprintf(stderr, "  %s   Override default config file path\n", config.EnvConfigPath)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *versionFlag {
		fmt.Fprintln(stdout, version.GetDetailedVersionString())
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	configPath := *configPathFlag
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	var err error
	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; cmd {
	case "config":
		err = runConfig(configPath, stdout)
	case "journal":
		err = runJournal(configPath, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}
	switch {
	case errors.Is(err, errUsage):
		return 2
	case err != nil:
		fmt.Fprintf(stderr, "tuirobot: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	m := config.NewManager()
	if err := m.LoadFromFile(path); err != nil {
		return nil, err
	}
	return m.GetConfig(), nil
}

func runConfig(configPath string, stdout io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func runJournal(configPath string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbFlag := fs.String("db", "", "Path to the journal database (default: journal.path from the config)")
	sessionFlag := fs.String("session", "", "Session ID to show")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	dbPath := *dbFlag
	if dbPath == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		dbPath = cfg.Journal.Path
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("journal not found at %s: %w", dbPath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := journal.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *sessionFlag == "" {
		return listSessions(ctx, store, stdout)
	}
	return showSession(ctx, store, *sessionFlag, stdout)
}

func listSessions(ctx context.Context, store *journal.Store, w io.Writer) error {
	sessions, err := store.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(w, "no sessions recorded")
		return nil
	}
	rows := make([][]string, 0, len(sessions)+1)
	rows = append(rows, []string{"ID", "NAME", "STARTED", "DURATION"})
	for _, s := range sessions {
		duration := "running"
		if !s.EndedAt.IsZero() {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Millisecond).String()
		}
		rows = append(rows, []string{s.ID, orDash(s.Name), s.StartedAt.Format(time.RFC3339), duration})
	}
	writeTable(w, rows)
	return nil
}

func showSession(ctx context.Context, store *journal.Store, id string, w io.Writer) error {
	events, err := store.Events(ctx, id)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	searches, err := store.Searches(ctx, id)
	if err != nil {
		return fmt.Errorf("list searches: %w", err)
	}

	fmt.Fprintf(w, "Window events (%d):\n", len(events))
	rows := [][]string{{"AT", "KIND", "WINDOW", "QUEUE", "STATE"}}
	for _, e := range events {
		rows = append(rows, []string{
			e.At.Format("15:04:05.000"), e.Kind, orDash(e.Window), orDash(e.Queue), e.From + " -> " + e.To,
		})
	}
	writeTable(w, rows)

	fmt.Fprintf(w, "\nSearches (%d):\n", len(searches))
	rows = [][]string{{"AT", "MATCHER", "FOUND", "ELAPSED", "ERROR"}}
	for _, s := range searches {
		rows = append(rows, []string{
			s.At.Format("15:04:05.000"), s.Matcher, fmt.Sprint(s.Found), s.Elapsed.String(), orDash(firstLine(s.Error)),
		})
	}
	writeTable(w, rows)
	return nil
}

// writeTable left-aligns columns by display width. The last column is not
// padded.
func writeTable(w io.Writer, rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(w, b.String())
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
