package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/morning-report/internal/platform/auth"
	"github.com/example/morning-report/internal/refresh"
)

func (a *app) tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token for the fetcher's admin routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := a.v.GetString("admin-jwt-secret")
			if secret == "" {
				return errors.New("--secret or ADMIN_JWT_SECRET is required")
			}
			tok, err := auth.Issue([]byte(secret), subject, auth.RoleAdmin, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().String("secret", "", "HS256 signing secret (env ADMIN_JWT_SECRET)")
	cmd.Flags().StringVar(&subject, "subject", "skillctl", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "token lifetime")
	_ = a.v.BindPFlag("admin-jwt-secret", cmd.Flags().Lookup("secret"))
	return cmd
}

func (a *app) refreshCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Queue a feed refresh on the feeds.refresh subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := a.v.GetString("nats-url")
			if url == "" {
				return errors.New("--nats-url or NATS_URL is required")
			}
			js, done, err := a.deps.DialNATS(url)
			if err != nil {
				return err
			}
			defer done()

			ack, err := refresh.Enqueue(js, reason)
			if err != nil {
				return fmt.Errorf("enqueue refresh: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "queued on %s, sequence %d\n", ack.Stream, ack.Sequence)
			return err
		},
	}
	cmd.Flags().String("nats-url", "", "NATS server URL (env NATS_URL)")
	cmd.Flags().StringVar(&reason, "reason", "skillctl", "reason recorded with the request")
	_ = a.v.BindPFlag("nats-url", cmd.Flags().Lookup("nats-url"))
	return cmd
}
