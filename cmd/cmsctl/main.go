// Command cmsctl is the operator CLI for the studio site database: schema
// migration, seeding the fallback content, exporting tables and creating
// admin accounts.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/config"
	"github.com/iliyamo/studio-site/internal/database"
	"github.com/iliyamo/studio-site/internal/logging"
	"github.com/iliyamo/studio-site/internal/repository"
)

var (
	verbose bool
	timeout time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cmsctl",
	Short: "Operate the studio site content database",
	Long: `cmsctl works directly against the database named by DB_DRIVER and
DATABASE_URL (or the DB_* parts).  A .env file in the working directory is
read first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New("dev", level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")

	rootCmd.AddCommand(migrateCmd, seedCmd, exportCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB connects and migrates, so every command can assume the tables exist.
func openDB(ctx context.Context) (*database.DB, error) {
	driver, dsn, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, repository.Schema(db.Dialect)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// withDB runs fn with a migrated database under the --timeout deadline.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *database.DB) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}
