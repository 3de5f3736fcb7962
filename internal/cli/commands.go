package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"mockpay/internal/adapter/http/dto"
	"mockpay/internal/core/domain"

	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the mock servers in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.opts.Serve == nil {
				return errors.New("serve is not available in this build")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.opts.Serve(ctx, a.cfg)
		},
	}
}

func (a *app) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the mock servers in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			path := a.cfg.RuntimeFile()

			rt, err := ReadRuntime(path)
			if err != nil {
				return err
			}
			if rt != nil && pidRunning(rt.PID) {
				fmt.Fprintf(out, "Mockpay already running (pid %d)\n", rt.PID)
				return nil
			}
			if a.anyHealthy(ctx) {
				fmt.Fprintln(out, "Mockpay already running")
				return nil
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locate executable: %w", err)
			}
			args := []string{"serve"}
			if a.cfgPath != "" {
				args = append(args, "--config", a.cfgPath)
			}
			proc := exec.Command(exe, args...)
			proc.Env = append(os.Environ(), "MOCKPAY_DATA_DIR="+a.cfg.DataDir)
			if err := proc.Start(); err != nil {
				return fmt.Errorf("start server: %w", err)
			}
			pid := proc.Process.Pid
			_ = proc.Process.Release()

			if err := WriteRuntime(path, Runtime{PID: pid, StartedAt: time.Now().UTC(), DataDir: a.cfg.DataDir}); err != nil {
				return err
			}

			boot := NewClient(a.baseURL(a.cfg.Server.PaystackPort), ClientOptions{
				RetryMax:     20,
				RetryWaitMin: 100 * time.Millisecond,
				RetryWaitMax: 500 * time.Millisecond,
				Timeout:      2 * time.Second,
			}, a.log)
			if err := boot.Health(ctx); err != nil {
				fmt.Fprintf(out, "Mockpay started (pid %d) but is not answering yet: %v\n", pid, err)
				return nil
			}

			fmt.Fprintf(out, "Mockpay started (pid %d)\n", pid)
			for _, t := range a.targets() {
				fmt.Fprintf(out, "%s: %s\n", t.name, a.baseURL(t.port))
			}
			return nil
		},
	}
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the mock servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			path := a.cfg.RuntimeFile()

			rt, err := ReadRuntime(path)
			if err != nil {
				return err
			}
			if rt != nil && pidRunning(rt.PID) {
				if p, err := os.FindProcess(rt.PID); err == nil && p.Signal(syscall.SIGTERM) == nil {
					fmt.Fprintln(out, "Mockpay stopped")
					return ClearRuntime(path)
				}
			}

			for _, t := range a.targets() {
				if err := a.probeClient(t.port).Shutdown(cmd.Context()); err == nil {
					fmt.Fprintln(out, "Mockpay stopped")
					return ClearRuntime(path)
				}
			}

			fmt.Fprintln(out, "Mockpay is not running")
			return ClearRuntime(path)
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show running services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			running := 0
			for _, t := range a.targets() {
				if err := a.probeClient(t.port).Health(cmd.Context()); err == nil {
					fmt.Fprintf(out, "%s running (%s)\n", t.name, a.baseURL(t.port))
					running++
				}
			}
			if running == 0 {
				fmt.Fprintln(out, "Not running")
			}
			return nil
		},
	}
}

func (a *app) payCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "pay <success|fail|cancel>",
		Short:     "Set the next payment result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"success", "fail", "cancel"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := domain.ParseOutcome(args[0]); !ok {
				return fmt.Errorf("expected success|fail|cancel, got %q", args[0])
			}
			result, err := a.controlClient().SetOutcome(cmd.Context(), args[0])
			if err != nil {
				return unreachable(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Next payment result set to %s\n", result)
			return nil
		},
	}
}

func (a *app) errorCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "error <500|timeout|network|none>",
		Short:     "Simulate a failure on the next provider request",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"500", "timeout", "network", "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := domain.ParseFault(args[0]); !ok {
				return fmt.Errorf("expected 500|timeout|network|none, got %q", args[0])
			}
			fault, err := a.controlClient().SetFault(cmd.Context(), args[0])
			if err != nil {
				return unreachable(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Next error set to %s\n", fault)
			return nil
		},
	}
}

func (a *app) webhookCmd() *cobra.Command {
	webhook := &cobra.Command{
		Use:   "webhook",
		Short: "Webhook actions",
	}

	resend := &cobra.Command{
		Use:   "resend",
		Short: "Resend the last webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := a.controlClient().ResendWebhook(cmd.Context())
			if err != nil {
				return unreachable(err)
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Webhook resent")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No webhook to resend")
			}
			return nil
		},
	}

	var (
		delay, retry, retryDelay int
		duplicate, drop          bool
	)
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or update webhook behavior",
		Long: `Without flags the active webhook policy is printed.
Boolean switches are turned off with --duplicate=false and --drop=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			var patch dto.WebhookConfigRequest
			changed := false
			if flags.Changed("delay") {
				patch.DelayMs, changed = &delay, true
			}
			if flags.Changed("retry") {
				patch.RetryCount, changed = &retry, true
			}
			if flags.Changed("retry-delay") {
				patch.RetryDelayMs, changed = &retryDelay, true
			}
			if flags.Changed("duplicate") {
				patch.Duplicate, changed = &duplicate, true
			}
			if flags.Changed("drop") {
				patch.Drop, changed = &drop, true
			}

			client := a.controlClient()
			var (
				policy domain.WebhookPolicy
				err    error
			)
			if changed {
				policy, err = client.UpdateWebhookConfig(cmd.Context(), patch)
			} else {
				policy, err = client.WebhookConfig(cmd.Context())
			}
			if err != nil {
				return unreachable(err)
			}

			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Webhook config updated")
			}
			b, _ := json.MarshalIndent(policy, "", "  ")
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
	configCmd.Flags().IntVar(&delay, "delay", 0, "Delay in ms before each delivery attempt")
	configCmd.Flags().IntVar(&retry, "retry", 0, "Retries after a failed first attempt")
	configCmd.Flags().IntVar(&retryDelay, "retry-delay", 0, "Delay in ms before each retry")
	configCmd.Flags().BoolVar(&duplicate, "duplicate", false, "Deliver every webhook twice")
	configCmd.Flags().BoolVar(&drop, "drop", false, "Record webhooks without delivering them")

	webhook.AddCommand(resend, configCmd)
	return webhook
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all mock data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.controlClient().Reset(cmd.Context()); err != nil {
				return unreachable(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database cleared")
			return nil
		},
	}
}

func (a *app) logsCmd() *cobra.Command {
	var history int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream live logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := a.controlClient()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Streaming logs from %s/__logs\n", client.BaseURL())

			err := client.StreamLogs(ctx, history, func(e domain.LogEntry) {
				fmt.Fprintln(out, formatEntry(e))
			})
			if err != nil && ctx.Err() == nil {
				return unreachable(err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&history, "history", 0, "Replay the last N persisted entries first")
	return cmd
}

func formatEntry(e domain.LogEntry) string {
	prefix := ""
	if e.Source != "" {
		prefix = "[" + e.Source + "] "
	}
	return fmt.Sprintf("%s %s%s", e.Timestamp.Local().Format("15:04:05"), prefix, e.Message)
}

// unreachable adds a hint when the server could not be reached at all.
func unreachable(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w (is mockpay running?)", err)
}
