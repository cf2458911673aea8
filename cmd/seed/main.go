package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"skilla/internal/app"
	"skilla/internal/config"
	"skilla/internal/database/seeder"
	"skilla/internal/infrastructure/cache"
	"skilla/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply migrations and seed the onboarding question set",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("skip-seed")
		return withContainer(func(ctx context.Context, c *app.Container) error {
			if skip {
				return nil
			}
			r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
			if err := r.Run(ctx, c.DB); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if err := c.Cache.DeleteByPattern(ctx, cache.OnboardingPattern); err != nil {
				c.Logger.Printf("[Seeder] cache invalidation failed err=%v", err)
			}
			return nil
		})
	},
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin <user-id>",
	Short: "Grant the admin role to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		return withContainer(func(ctx context.Context, c *app.Container) error {
			if err := c.Roles.Grant(ctx, userID, repository.RoleAdmin); err != nil {
				return fmt.Errorf("grant admin: %w", err)
			}
			c.Logger.Printf("[Seeder] admin role granted user=%s", userID)
			return nil
		})
	},
}

// issueTokenCmd signs a token with the configured secret. Production tokens
// come from the identity provider; this is for local development.
var issueTokenCmd = &cobra.Command{
	Use:   "issue-token <user-id>",
	Short: "Print an access token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		email, _ := cmd.Flags().GetString("email")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		return withContainer(func(_ context.Context, c *app.Container) error {
			tok, err := c.JWT.GenerateAccessToken(userID, strings.TrimSpace(email), ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		})
	},
}

func init() {
	rootCmd.Flags().Bool("skip-seed", false, "only apply migrations")

	issueTokenCmd.Flags().String("email", "", "email claim")
	issueTokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(grantAdminCmd)
	rootCmd.AddCommand(issueTokenCmd)
}

// withContainer builds the container, which applies pending migrations, and
// runs fn with a bounded context.
func withContainer(fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return fn(ctx, c)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("seed failed: %v", err)
		os.Exit(1)
	}
}
