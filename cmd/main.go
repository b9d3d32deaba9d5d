package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"batchcal/internal/builder"
	"batchcal/internal/caldav"
	"batchcal/internal/config"
	"batchcal/internal/ics"
	"batchcal/internal/logging"
	"batchcal/internal/models"
	"batchcal/internal/outlook"
	"batchcal/internal/resolver"
	"batchcal/internal/schedule"
	"batchcal/internal/scheduler"
	"batchcal/internal/tz"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "batchcal",
		Usage: "Batch-create recurring events on shared calendars from a spreadsheet.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.DefaultPath, Usage: "Path to the config file (.json, .yaml or .toml)."},
			&cli.StringFlag{Name: "log-dir", Value: "logs", Usage: "Directory for the run log file. Empty logs to the console only."},
		},
		Commands: []*cli.Command{
			runCommand(),
			calendarsCommand(),
			exportCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Create every event in the schedule spreadsheet.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Resolve calendars and log what would be created without creating anything."},
			&cli.IntFlag{Name: "workers", Usage: "Process up to N calendar owners at once. Overrides the config file."},
			&cli.StringFlag{Name: "schedule", Usage: "Schedule CSV path. Overrides schedule_csv_filepath."},
		},
		Action: func(c *cli.Context) error {
			logger, closeLog, err := logging.Setup(c.String("log-dir"), logLevel(), time.Now())
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("workers") {
				cfg.Workers = c.Int("workers")
			}

			plans, err := loadPlans(logger, cfg)
			if err != nil {
				return err
			}

			backend, err := newBackend(logger, cfg)
			if err != nil {
				return err
			}

			if c.Bool("dry-run") {
				logger.Info("Performing a dry run. No events will be created.")
			}
			s := scheduler.NewScheduler(logger, backend, scheduler.Options{
				DryRun:       c.Bool("dry-run"),
				Workers:      cfg.Workers,
				CalendarName: cfg.CalendarName,
			})
			return s.Run(c.Context, plans).Err()
		},
	}
}

func calendarsCommand() *cli.Command {
	return &cli.Command{
		Name:      "calendars",
		Usage:     "List the calendars of one or more shared mailboxes.",
		ArgsUsage: "OWNER [OWNER...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("at least one calendar owner is required")
			}
			logger := logging.New(os.Stderr, logLevel())

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			backend, err := newBackend(logger, cfg)
			if err != nil {
				return err
			}

			r := resolver.New(logger, backend, cfg.CalendarName)
			failed := 0
			for _, owner := range c.Args().Slice() {
				if err := r.Fetch(c.Context, owner); err != nil {
					failed++
				}
			}
			for _, cal := range r.Calendars() {
				fmt.Printf("%s\t%s\t%s\n", cal.Owner, cal.Name, cal.ID)
			}
			if failed > 0 {
				return fmt.Errorf("failed to fetch calendars for %d owner(s)", failed)
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the schedule as an iCalendar file without contacting any server.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "schedule.ics", Usage: "Output file, '-' for stdout."},
			&cli.StringFlag{Name: "schedule", Usage: "Schedule CSV path. Overrides schedule_csv_filepath."},
		},
		Action: func(c *cli.Context) error {
			logger := logging.New(os.Stderr, logLevel())

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			plans, err := loadPlans(logger, cfg)
			if err != nil {
				return err
			}

			out := os.Stdout
			if path := c.String("out"); path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			events := make([]*models.Event, 0, len(plans))
			for _, p := range plans {
				events = append(events, p.Event)
			}
			if err := ics.Write(out, events); err != nil {
				return err
			}
			logger.Info("Exported schedule.", "events", len(events), "out", c.String("out"))
			return nil
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if c.IsSet("schedule") {
		_ = os.Setenv(config.EnvScheduleCSV, c.String("schedule"))
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadPlans reads the schedule and builds every event before anything is sent.
func loadPlans(logger *slog.Logger, cfg *config.Config) ([]scheduler.Plan, error) {
	rows, err := schedule.ReadFile(cfg.ScheduleCSV)
	if err != nil {
		return nil, err
	}
	logger.Info("Read schedule.", "file", cfg.ScheduleCSV, "rows", len(rows))

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	mode, err := tz.ParseMode(cfg.DSTMode)
	if err != nil {
		return nil, err
	}
	if mode == tz.ModeLegacy {
		logger.Warn("Using legacy DST conversion; times near a DST transition may be off by an hour.")
	}

	b := builder.New(tz.NewNormalizer(loc, mode), cfg.O365TimeZone)
	return scheduler.BuildPlans(b, rows)
}

func newBackend(logger *slog.Logger, cfg *config.Config) (scheduler.Backend, error) {
	switch cfg.Backend {
	case config.BackendCalDAV:
		client, err := caldav.NewClient(logger, cfg.CalDAVEndpoint, cfg.Username, cfg.Password, cfg.CalDAVHomeSet, cfg.RequestTimeout())
		if err != nil {
			return nil, fmt.Errorf("failed to create caldav client: %w", err)
		}
		return client, nil
	default:
		return outlook.NewClient(logger, cfg.APIBaseURL, cfg.Username, cfg.Password, cfg.RequestTimeout()), nil
	}
}

func logLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
