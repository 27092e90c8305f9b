package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"RemindBot/bot"
	"RemindBot/commands"
	_ "RemindBot/commands/general"
	_ "RemindBot/commands/help"
	"RemindBot/config"
	"RemindBot/obs"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var rootCmd = &cobra.Command{
	Use:           "remindbot",
	Short:         "Discord bot for reminders and timers",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, level, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		return runBot(cmd.Context(), cfg, log, level)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(entriesCmd)
}

func setup() (*config.Config, *zap.Logger, zap.AtomicLevel, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, zap.AtomicLevel{}, fmt.Errorf("load config: %w", err)
	}
	log, level, err := obs.NewLogger(cfg)
	if err != nil {
		return nil, nil, level, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, level, nil
}

func runBot(ctx context.Context, cfg *config.Config, log *zap.Logger, level zap.AtomicLevel) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	b, err := bot.NewBot(ctx, cfg, log)
	if err != nil {
		return err
	}

	ready := make(chan struct{})
	var readyOnce sync.Once
	b.Client.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("gateway ready", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
		readyOnce.Do(func() { close(ready) })
	})
	b.Client.AddHandler(commands.HandleMessage(b))
	b.Client.AddHandler(commands.HandleInteraction(b))

	if err := b.Client.Open(); err != nil {
		b.Close()
		return fmt.Errorf("open gateway: %w", err)
	}
	defer b.Close()

	if cfg.Metrics != "" {
		ms := obs.BootstrapMetricsServer(cfg.Metrics, level, healthChecks(b), log.Named("metrics"))
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = ms.Shutdown(ctx)
		}()
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return shutdown(b, log)
	}

	if err := commands.RegisterAllSlashCommands(ctx, b.Client, b.Client.State.User.ID, cfg.Discord.GuildID, log.Named("slash")); err != nil {
		log.Error("error syncing slash commands", zap.Error(err))
	}

	log.Info("bot is running", zap.String("prefix", b.Prefix), zap.String("store", cfg.Store.Backend))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Reminders.Run(gctx) })
	g.Go(func() error { return b.Timers.Run(gctx) })
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service stopped", zap.Error(err))
	}

	return shutdown(b, log)
}

func healthChecks(b *bot.Bot) []obs.Check {
	checks := []obs.Check{
		{Name: "gateway", Run: func(context.Context) error {
			if !b.Client.DataReady {
				return errors.New("gateway not ready")
			}
			return nil
		}},
		{Name: "reminders", Run: b.Reminders.Health},
		{Name: "timers", Run: b.Timers.Health},
	}
	if b.Db != nil {
		checks = append(checks, obs.Check{Name: "database", Run: b.Db.PingContext})
	}
	return checks
}

// shutdown flushes both stores before the gateway and database close.
func shutdown(b *bot.Bot, log *zap.Logger) error {
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(b.Reminders.Shutdown(ctx), b.Timers.Shutdown(ctx))
}
