package main

import (
	"fmt"
	"os"

	"chronicles/backend/internal/config"
	"chronicles/backend/internal/database"
	"chronicles/backend/internal/logger"
	"chronicles/backend/internal/models"
	"chronicles/backend/internal/search"
	"chronicles/backend/internal/store"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const envDirFlag = "env-dir"

// envFlags returns a fresh flag set for one subcommand.
func envFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		envDirFlag: &cobraflags.StringFlag{
			Name:  envDirFlag,
			Value: ".",
			Usage: "Directory holding the .env file",
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "manage",
		Short:        "Maintenance tasks for the Chronicles backend",
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newReindexCommand())
	root.AddCommand(newFollowsCommand())
	return root
}

func load(flags map[string]cobraflags.Flag) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(flags[envDirFlag].GetString())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	config.AppConfig = cfg
	logger.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}

func newMigrateCommand() *cobra.Command {
	flags := envFlags()
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := load(flags)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Log.Info("Database migrated successfully.")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newReindexCommand() *cobra.Command {
	var batchSize int
	flags := envFlags()

	cmd := &cobra.Command{
		Use:       "reindex [posts|users|all]",
		Short:     "Rebuild the search index from the database",
		Long:      "Re-projects every searchable row into the search index. Use it after the index was unavailable or wiped.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"posts", "users", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}

			cfg, db, err := load(flags)
			if err != nil {
				return err
			}
			indexer, err := search.Open(cfg.ElasticsearchURL, cfg.IndexTimeout, logger.Log)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if target == "users" || target == "all" {
				n, err := search.Reindex[models.User](ctx, db, indexer, batchSize)
				if err != nil {
					return fmt.Errorf("reindex users after %d rows: %w", n, err)
				}
				logger.Log.WithField("count", n).Info("users reindexed")
			}
			if target == "posts" || target == "all" {
				n, err := search.Reindex[models.Post](ctx, db, indexer, batchSize)
				if err != nil {
					return fmt.Errorf("reindex posts after %d rows: %w", n, err)
				}
				logger.Log.WithField("count", n).Info("posts reindexed")
			}
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	cmd.Flags().IntVar(&batchSize, "batch-size", 100, "Rows fetched per batch")
	return cmd
}

func newFollowsCommand() *cobra.Command {
	var followers bool
	flags := envFlags()

	cmd := &cobra.Command{
		Use:   "follows <username>",
		Short: "Print the users someone follows, or their followers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := load(flags)
			if err != nil {
				return err
			}
			users := store.NewUsers(database.NewTxManager(db), nil)

			ctx := cmd.Context()
			user, err := users.ByUsername(ctx, args[0])
			if err != nil {
				return fmt.Errorf("user %q: %w", args[0], err)
			}

			seq := users.Following(ctx, user.ID, 100)
			if followers {
				seq = users.Followers(ctx, user.ID, 100)
			}
			for u, err := range seq {
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u.Username)
			}
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	cmd.Flags().BoolVar(&followers, "followers", false, "List followers instead of followed users")
	return cmd
}
