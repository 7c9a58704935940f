package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/salonbook/libs/db"
	"github.com/md-rashed-zaman/salonbook/libs/kafkax"
	"github.com/md-rashed-zaman/salonbook/libs/runtime"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/session"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/store"
	"github.com/spf13/cobra"
)

// doctorChecks probes each configured dependency without restoring a session.
func (c *cli) doctorChecks() []runtime.ReadyCheck {
	cfg := c.cfg
	checks := []runtime.ReadyCheck{
		{Name: "api", Check: func(ctx context.Context) error {
			api, err := newGateway(cfg, c.logger)
			if err != nil {
				return err
			}
			return api.Ping(ctx)
		}},
		{Name: "session-store (" + cfg.SessionBackend + ")", Check: func(ctx context.Context) error {
			st, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			if _, err := st.Get(ctx, session.KeyToken); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			return nil
		}},
	}
	if cfg.SessionBackend == "postgres" && cfg.DatabaseURL != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "postgres", Check: func(ctx context.Context) error {
			pool, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxConns: 1})
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.ReadyCheck(pool)(ctx)
		}})
	}
	if len(cfg.KafkaBrokers) > 0 {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(cfg.KafkaBrokers)})
	}
	return checks
}

func (c *cli) doctorCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:         "doctor",
		Short:       "Check connectivity to the API and configured backends",
		Annotations: map[string]string{annBootstrap: "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runtime.RunChecks(cmd.Context(), timeout, c.doctorChecks()...)
			for _, r := range results {
				status := "ok"
				detail := ""
				if r.Err != nil {
					status = "FAIL"
					detail = r.Err.Error()
				}
				fmt.Fprintf(c.out, "%-4s  %-28s %6dms  %s\n", status, r.Name, r.Duration.Milliseconds(), detail)
			}
			if !runtime.AllHealthy(results) {
				return errors.New("some checks failed")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "Per-check timeout")
	return cmd
}
