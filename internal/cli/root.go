// Package cli implements the mockpay command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"mockpay/config"
	"mockpay/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Options wires the command line to the process entry point.
type Options struct {
	Version string
	// Serve runs both provider servers in the foreground until ctx is done.
	Serve func(ctx context.Context, cfg *config.Config) error
}

// app carries state shared by every subcommand.
type app struct {
	opts    Options
	cfgPath string
	verbose bool
	cfg     *config.Config
	log     zerolog.Logger
}

// NewRootCommand builds the mockpay command tree.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "mockpay",
		Short: "Local Paystack + Flutterwave mock servers",
		Long: `mockpay runs Paystack- and Flutterwave-shaped mock APIs on two local ports.

Control commands (pay, error, webhook, reset, logs) talk to a running server.`,
		Version:           opts.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to a config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log control client retries")

	root.AddCommand(
		a.serveCmd(),
		a.startCmd(),
		a.stopCmd(),
		a.statusCmd(),
		a.payCmd(),
		a.errorCmd(),
		a.webhookCmd(),
		a.resetCmd(),
		a.logsCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute(opts Options) error {
	if err := NewRootCommand(opts).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := "error"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.NewWithWriter(level, cmd.ErrOrStderr())
	return nil
}

// baseURL is where the CLI reaches the server listening on port.
func (a *app) baseURL(port int) string {
	host := a.cfg.Server.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// controlClient targets the Paystack server; both servers share the control plane.
func (a *app) controlClient() *Client {
	return NewClient(a.baseURL(a.cfg.Server.PaystackPort), ClientOptions{
		RetryMax:     2,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 500 * time.Millisecond,
		Timeout:      5 * time.Second,
	}, a.log)
}

// probeClient fails fast; it is used to ask whether a server is up.
func (a *app) probeClient(port int) *Client {
	return NewClient(a.baseURL(port), ClientOptions{Timeout: 1500 * time.Millisecond}, a.log)
}

type target struct {
	name string
	port int
}

func (a *app) targets() []target {
	return []target{
		{name: "Paystack", port: a.cfg.Server.PaystackPort},
		{name: "Flutterwave", port: a.cfg.Server.FlutterwavePort},
	}
}

func (a *app) anyHealthy(ctx context.Context) bool {
	for _, t := range a.targets() {
		if a.probeClient(t.port).Health(ctx) == nil {
			return true
		}
	}
	return false
}
