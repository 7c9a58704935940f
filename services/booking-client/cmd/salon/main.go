// Command salon is a terminal client for the salon booking API.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/md-rashed-zaman/salonbook/libs/runtime"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/guard"
	"github.com/spf13/cobra"
)

const (
	serviceName = "salon"
	version     = "0.3.0"

	// annotations on commands
	annRoute     = "route"
	annBootstrap = "bootstrap"
)

func main() {
	_ = runtime.LoadDotEnv()

	ctx, stop := runtime.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	c := &cli{out: out, errOut: errOut}
	defer c.close()
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

type cli struct {
	out    io.Writer
	errOut io.Writer

	apiURL   string
	lang     string
	logLevel string

	cfg    cliConfig
	logger *slog.Logger
	app    *app
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
	}
}

func (c *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salon",
		Short:         "Book and manage salon appointments",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.bootstrap(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&c.apiURL, "api", "", "API base URL (overrides SALON_API_URL)")
	cmd.PersistentFlags().StringVar(&c.lang, "lang", "", "Content language (overrides SALON_LANG)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.profileCmd(),
		c.passwordCmd(),
		c.servicesCmd(),
		c.slotsCmd(),
		c.bookCmd(),
		c.appointmentsCmd(),
		c.cancelCmd(),
		c.dashboardCmd(),
		c.adminCmd(),
		c.doctorCmd(),
	)
	return cmd
}

// bootstrap builds the app for cmd and applies its route guard.
func (c *cli) bootstrap(cmd *cobra.Command) error {
	c.cfg = loadConfig()
	if c.apiURL != "" {
		c.cfg.APIURL = c.apiURL
	}
	if c.lang != "" {
		c.cfg.Lang = c.lang
	}
	if c.logLevel != "" {
		c.cfg.LogLevel = c.logLevel
	}
	c.logger = runtime.NewLogger(serviceName, c.cfg.LogLevel)

	if cmd.Annotations[annBootstrap] == "none" {
		return nil
	}
	a, err := newApp(cmd.Context(), c.cfg, c.logger, c.errOut)
	if err != nil {
		return err
	}
	c.app = a

	path, ok := cmd.Annotations[annRoute]
	if !ok {
		return nil
	}
	route, ok := guard.Lookup(path)
	if !ok {
		return nil
	}
	switch d := guard.Decide(a.session.Snapshot(), route); d.Outcome {
	case guard.Allow:
		return nil
	case guard.Redirect:
		a.Navigate(d.Location)
		if route.AdminOnly && a.session.Snapshot().IsAuthenticated() {
			return fmt.Errorf("%s requires an admin account", cmd.CommandPath())
		}
		return fmt.Errorf("%s requires you to sign in (salon login)", cmd.CommandPath())
	default:
		return fmt.Errorf("%s: session not ready", cmd.CommandPath())
	}
}

func routed(cmd *cobra.Command, path string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annRoute] = path
	return cmd
}
