package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/database"
	"github.com/iliyamo/studio-site/internal/pages"
	"github.com/iliyamo/studio-site/internal/repository"
)

var (
	exportDir     string
	adminEmail    string
	adminPassword string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create every content and admin table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *database.DB) error {
			logger.Info("schema up to date", zap.String("dialect", db.Dialect.Name), zap.Int("tables", len(repository.Tables())+2))
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the built-in site content into empty tables",
	Long: `seed copies the fallback content the public pages render with into
the database, so the admin editor starts from it.  Tables that already
hold rows are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *database.DB) error {
			seeded, err := seed(ctx, repository.NewContentRepo(db))
			if err != nil {
				return err
			}
			for _, t := range repository.Tables() {
				if n, ok := seeded[t]; ok {
					logger.Info("seeded", zap.String("table", string(t)), zap.Int("rows", n))
				}
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every content table to <out>/<table>.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *database.DB) error {
			files, err := export(ctx, repository.NewContentRepo(db), exportDir)
			if err != nil {
				return err
			}
			logger.Info("exported", zap.String("dir", exportDir), zap.Int("files", files))
			return nil
		})
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account for the editor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}
		cost, _ := strconv.Atoi(os.Getenv("BCRYPT_COST"))
		return withDB(cmd, func(ctx context.Context, db *database.DB) error {
			id, err := repository.NewAdminRepo(db).Create(ctx, adminEmail, adminPassword, cost)
			if err != nil {
				return err
			}
			logger.Info("admin created", zap.String("id", id), zap.String("email", adminEmail))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "export", "output directory")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "login password (at least 8 characters)")
}

// contentStore is the slice of the content repository the commands use.
type contentStore interface {
	List(ctx context.Context, table repository.Table) ([]repository.Row, error)
	Create(ctx context.Context, table repository.Table, fields map[string]any) (repository.Row, error)
}

// seed inserts the fallback rows into every table that is still empty and
// reports how many rows went into each.
func seed(ctx context.Context, store contentStore) (map[repository.Table]int, error) {
	rows, err := pages.SeedRows()
	if err != nil {
		return nil, err
	}
	out := make(map[repository.Table]int)
	for _, t := range repository.Tables() {
		items := rows[t]
		if len(items) == 0 {
			continue
		}
		existing, err := store.List(ctx, t)
		if err != nil {
			return out, err
		}
		if len(existing) > 0 {
			continue
		}
		for _, fields := range items {
			if _, err := store.Create(ctx, t, fields); err != nil {
				return out, fmt.Errorf("seed %s: %w", t, err)
			}
			out[t]++
		}
	}
	return out, nil
}

// export writes one indented JSON array per table and returns the number
// of files written.
func export(ctx context.Context, store contentStore, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	n := 0
	for _, t := range repository.Tables() {
		rows, err := store.List(ctx, t)
		if err != nil {
			return n, err
		}
		b, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return n, fmt.Errorf("export %s: %w", t, err)
		}
		if err := os.WriteFile(filepath.Join(dir, string(t)+".json"), append(b, '\n'), 0o644); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
