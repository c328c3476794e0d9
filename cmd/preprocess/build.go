package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/antigravity/transitcore/internal/config"
	"github.com/antigravity/transitcore/internal/preprocess"
	"github.com/antigravity/transitcore/internal/store/snapshot"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Load the graph from Postgres and write a snapshot file",
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()

	s, err := preprocess.NewLoader(pool).Build(ctx)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	if err := snapshot.Write(cfg.Snapshot.Path, s); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	fmt.Printf("wrote snapshot to %s\n", cfg.Snapshot.Path)
	return nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	return cfg, nil
}
