package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/trainermatch-backend/internal/app"
	"github.com/yungbote/trainermatch-backend/internal/data/db"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/seed"
)

type seedOptions struct {
	reset   bool
	file    string
	logMode string
	skipEnv bool
}

func newRootCmd() *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo vendors, trainers and requirements into the database",
		Long: `Load demo fixtures into the database configured by DB_DRIVER and the
POSTGRES_* or SQLITE_PATH variables.

The fixtures compiled into the binary are used unless --file is given.
All rows are written in one transaction.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "delete all existing rows before seeding")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML fixture file to load instead of the built-in one")
	cmd.Flags().StringVar(&opts.logMode, "log-mode", "", "logger mode (defaults to LOG_MODE)")
	cmd.Flags().BoolVar(&opts.skipEnv, "no-dotenv", false, "do not read .env")
	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	if !opts.skipEnv {
		if err := app.LoadDotEnv(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	mode := opts.logMode
	if mode == "" {
		mode = app.LogModeFromEnv()
	}
	log, err := logger.New(mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	fixtures, err := loadFixtures(opts.file)
	if err != nil {
		return err
	}

	dbService, err := db.NewService(log, db.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer dbService.Close()
	if err := dbService.Migrate(); err != nil {
		return fmt.Errorf("database automigrate: %w", err)
	}

	sum, err := seed.NewSeeder(dbService.DB(), log).Run(cmd.Context(), fixtures, opts.reset)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"seeded %d vendors, %d colleges, %d users, %d trainers, %d requirements, %d matches, %d proposals, %d sessions\n",
		sum.Vendors, sum.Colleges, sum.Users, sum.Trainers, sum.Requirements, sum.Matches, sum.Proposals, sum.Sessions,
	)
	return nil
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return seed.Parse(raw)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
