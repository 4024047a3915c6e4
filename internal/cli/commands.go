package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/app"
	"github.com/marketbrief/marketbrief/internal/logx"
	"github.com/marketbrief/marketbrief/internal/schedule"
)

const runTimeout = 10 * time.Minute

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "marketbrief",
		Short: "MarketBrief - Watchlist Market Reports",
		Long: `MarketBrief fetches quotes, calendars and signals for your watchlist
and delivers pre-market, post-close and weekly HTML reports by email.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			logx.Init(!cfg.Debug)
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newReportCmd(cfg, "premarket", "Generate and send the pre-market briefing",
		func(ctx context.Context, a *app.App) (string, error) { return a.RunPreMarket(ctx) }))
	rootCmd.AddCommand(newReportCmd(cfg, "postmarket", "Generate and send the market close report",
		func(ctx context.Context, a *app.App) (string, error) { return a.RunPostClose(ctx) }))
	rootCmd.AddCommand(newReportCmd(cfg, "weekly", "Generate and send the weekly summary",
		func(ctx context.Context, a *app.App) (string, error) { return a.RunWeekly(ctx) }))
	rootCmd.AddCommand(newQuotesCmd(cfg))
	rootCmd.AddCommand(newScheduleCmd(cfg))
	rootCmd.AddCommand(newWatchlistCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// newReportCmd builds one of the three report commands, which differ
// only in the pipeline they run.
func newReportCmd(cfg *config.Config, name, short string, run func(context.Context, *app.App) (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if name != "weekly" && !force && !schedule.IsMarketDay(time.Now()) {
				fmt.Println(mutedStyle.Render("Market is closed today; use --force to run anyway."))
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := run(ctx, a); err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s report generated", name)))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Run even when the market is closed")
	return cmd
}

// newQuotesCmd creates the quotes command for quick terminal lookups
func newQuotesCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "quotes [SYMBOL...]",
		Short: "Fetch current quotes for symbols or the whole watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			symbols := normalizeSymbols(args)
			if len(symbols) == 0 {
				symbols = a.Watchlist().GetSymbols(ctx)
			}

			quotes := a.Quotes(ctx, symbols)
			if len(quotes) == 0 {
				fmt.Println(mutedStyle.Render("No quotes available."))
				return nil
			}
			fmt.Println(renderQuoteTable(quotes))
			return nil
		},
	}
}

// newScheduleCmd creates the schedule command, which runs the report
// jobs as a long-lived process
func newScheduleCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the report schedule in the foreground",
		Long: `Run MarketBrief as a long-lived process that generates the pre-market,
post-close and weekly reports at their configured local times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			// Live config reload: edits to the on-disk config file
			// take effect on the next scheduled run.
			mgr, err := config.NewManager(
				config.WithConfigDir(cfg.DataDir),
				config.WithInitialConfig(cfg),
			)
			if err != nil {
				logx.Warn("config manager unavailable, live reload disabled", "error", err)
			} else {
				watchCtx, stopWatch := context.WithCancel(ctx)
				defer stopWatch()
				if err := mgr.Watch(watchCtx, func(updated config.Config) {
					*cfg = updated
					logx.Info("configuration reloaded", "path", mgr.Path())
				}); err != nil {
					logx.Warn("config watch failed", "error", err)
				}
			}

			sched, err := schedule.NewScheduler(cfg)
			if err != nil {
				return err
			}
			if err := sched.Register(cfg, a.ScheduleJobs()); err != nil {
				return err
			}

			fmt.Println(titleStyle.Render("MarketBrief Scheduler"))
			fmt.Println(renderScheduleSummary(cfg, sched.Location()))
			sched.Start()
			defer sched.Stop()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-stop:
			case <-ctx.Done():
			}
			fmt.Println(mutedStyle.Render("Shutting down..."))
			return nil
		},
	}
}

// newWatchlistCmd creates the watchlist command group
func newWatchlistCmd(cfg *config.Config) *cobra.Command {
	watchlistCmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Watchlist management",
	}

	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current watchlist symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			symbols := a.Watchlist().GetSymbols(ctx)
			fmt.Println(headerStyle.Render(fmt.Sprintf("Watchlist (%d symbols)", len(symbols))))
			for _, s := range symbols {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	})

	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "add [SYMBOL]",
		Short: "Add a symbol to the Notion watchlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var symbol string
			if len(args) == 1 {
				symbol = strings.ToUpper(strings.TrimSpace(args[0]))
			} else {
				var err error
				symbol, err = PromptForSymbol()
				if err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Watchlist().AddSymbol(ctx, symbol); err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s added to watchlist", symbol)))
			return nil
		},
	})

	return watchlistCmd
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ Configuration is valid"))
			return nil
		},
	})

	return configCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("MarketBrief v1.0.0")
			fmt.Println("Watchlist market reports, delivered.")
		},
	}
}

func normalizeSymbols(args []string) []string {
	seen := make(map[string]bool, len(args))
	out := make([]string, 0, len(args))
	for _, a := range args {
		s := strings.ToUpper(strings.TrimSpace(a))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
