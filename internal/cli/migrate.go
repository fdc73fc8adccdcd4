package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/cimillas/delivery-scheduler/migrations"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, v.GetString("database_url"))
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()

			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if err := migrations.Apply(ctx, pool); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}
