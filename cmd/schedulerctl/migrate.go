package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/school-tournament/db"
	"github.com/Dosada05/school-tournament/middleware"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			conn, err := db.Connect(databaseURL, 5*time.Second)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := db.Migrate(ctx, conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to $DATABASE_URL)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		userID int
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token with JWT_SECRET_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET_KEY")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET_KEY is not set")
			}
			token, err := middleware.IssueToken([]byte(secret), userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user-id", 1, "user_id claim")
	cmd.Flags().StringVar(&role, "role", middleware.RoleOrganizer, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

func init() {
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokenCmd())
}
