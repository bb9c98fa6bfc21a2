package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-doctor-directory/internal/infrastructure/database"
	"go-doctor-directory/internal/querystate"
	"go-doctor-directory/internal/repository"
	"go-doctor-directory/internal/service"
	"go-doctor-directory/internal/usecase"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the CLI. Running it without a subcommand serves the
// HTTP API.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "doctor-directory",
		Short:         "Doctor directory browser API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(syncCmd())

	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app.Run()
	return nil
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [address]",
		Short: "Load the directory once and print the list for a query string",
		Example: `  doctor-directory query "sortBy=fees&consultationType=video consult"
  doctor-directory query "?specialties=Dentist,General Physician&search=an"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app, err := newInfrastructure(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			source, err := app.doctorSource()
			if err != nil {
				return err
			}

			address := ""
			if len(args) == 1 {
				address = args[0]
			}

			listing := usecase.NewDoctorListingUsecase(app.Log, source)
			listing.Load(cmd.Context())
			result := listing.GetListing(cmd.Context(), querystate.Parse(address))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded database migrations",
	}

	for _, direction := range []database.MigrateDirection{database.MigrateUp, database.MigrateDown} {
		cmd.AddCommand(&cobra.Command{
			Use:   string(direction),
			Short: fmt.Sprintf("Run migrations %s", direction),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if !cfg.DB.Enabled() {
					return errors.New("DB_HOST is required to run migrations")
				}
				return database.RunMigrations(cfg.DB, direction)
			},
		})
	}

	return cmd
}

func syncCmd() *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the remote directory into Postgres",
		Long: `Fetches SOURCE_URL and replaces the doctor_listings table with its records,
so that the server can run with SOURCE_DRIVER=postgres. With --every the
sync repeats on that interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.DB.Enabled() {
				return errors.New("DB_HOST is required to sync listings")
			}

			app, err := newInfrastructure(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			syncService := service.NewDirectorySyncService(
				app.DB,
				repository.NewHTTPDoctorSource(cfg.Source.URL, cfg.Source.Timeout),
				repository.NewDoctorListingRepository(),
				app.Log,
			)

			if every <= 0 {
				_, err := syncService.Sync(cmd.Context())
				return err
			}
			return runScheduledSync(cmd.Context(), syncService, every)
		},
	}

	cmd.Flags().DurationVar(&every, "every", 0, "repeat the sync on this interval (e.g. 1h)")
	return cmd
}

// runScheduledSync runs the first sync immediately. A failed run is logged
// and retried on the next tick.
func runScheduledSync(ctx context.Context, syncService *service.DirectorySyncService, every time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(every).Do(func() {
		if _, err := syncService.Sync(ctx); err != nil {
			logrus.Warnf("Failed to sync directory: %+v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}

	logrus.Infof("Syncing directory every %s", every)
	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()

	logrus.Info("Scheduled sync stopped")
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
