package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"fitness-coach/internal/auth"
	"fitness-coach/internal/observability"
	"fitness-coach/internal/service"
	"fitness-coach/internal/store"
	"fitness-coach/internal/strava"
)

func (a *app) oauthConfig() (*oauth2.Config, error) {
	if err := a.cfg.ValidateStrava(); err != nil {
		return nil, err
	}
	return auth.NewOAuthConfig(a.cfg.Strava.ClientID, a.cfg.Strava.ClientSecret, auth.CallbackPort), nil
}

// authenticate runs the browser flow and stores the tokens.
func (a *app) authenticate(ctx context.Context, db *store.DB, out io.Writer) error {
	oauthCfg, err := a.oauthConfig()
	if err != nil {
		return err
	}

	flow := &auth.Flow{Config: oauthCfg, Out: out, Logger: observability.Named("auth")}
	result, err := flow.Run(ctx)
	if err != nil {
		return err
	}

	// Store the tokens
	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := db.SaveAuth(ctx, storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Fprintf(out, "\nSuccessfully authenticated as athlete %d!\n", result.AthleteID)
	return nil
}

// stravaClient builds an API client from the stored tokens, running the
// auth flow first when there are none.
func (a *app) stravaClient(ctx context.Context, db *store.DB, out io.Writer) (*strava.Client, error) {
	storedAuth, err := db.GetAuth(ctx)
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Fprintln(out, "No authentication found. Starting OAuth flow...")
		if err := a.authenticate(ctx, db, out); err != nil {
			return nil, fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	oauthCfg, err := a.oauthConfig()
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}
	return strava.NewClient(auth.NewTokenSource(ctx, oauthCfg, token, db)), nil
}

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Connect your Strava account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			return a.authenticate(cmd.Context(), db, cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the stored Strava connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			storedAuth, err := db.GetAuth(cmd.Context())
			if errors.Is(err, store.ErrNoAuth) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not connected. Run 'coach auth' to connect Strava.")
				return nil
			}
			if err != nil {
				return err
			}
			state := "valid"
			if time.Now().After(storedAuth.ExpiresAt) {
				state = "expired, refreshed on next sync"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected as athlete %d (token %s)\n", storedAuth.AthleteID, state)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Strava tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.DeleteAuth(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Strava tokens removed.")
			return nil
		},
	})
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	var since string
	var details bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull new activities from Strava",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var after time.Time
			if since != "" {
				t, err := time.Parse(time.DateOnly, since)
				if err != nil {
					return fmt.Errorf("--since: %w", err)
				}
				after = t
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			client, err := a.stravaClient(ctx, db, out)
			if err != nil {
				return err
			}

			svc := service.NewSyncService(client, db, observability.Named("sync"))
			svc.FetchDetails = details

			progress := make(chan service.SyncProgress)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for p := range progress {
					if p.Total > 0 {
						fmt.Fprintf(out, "\r%-10s %d/%d", p.Phase, p.Completed, p.Total)
					}
				}
				fmt.Fprintln(out)
			}()

			result, err := svc.Sync(ctx, after, progress)
			<-done
			if err != nil {
				return err
			}

			for _, e := range result.Errors {
				a.logger.Warn("sync error", zap.Error(e))
			}
			short, daily := client.RateLimitStatus()
			fmt.Fprintf(out, "Synced %d activities (%d runs) since %s. API limits left: %d (15min), %d (daily)\n",
				result.ActivitiesStored, result.RunsStored, result.After.Format(time.DateOnly), short, daily)
			return nil
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "sync activities after this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&details, "details", false, "fetch each run to pick up perceived exertion (slower)")
	return cmd
}
