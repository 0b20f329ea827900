package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zulandar/doctrail/internal/api"
	"github.com/zulandar/doctrail/internal/config"
	"github.com/zulandar/doctrail/internal/lifecycle"
	"github.com/zulandar/doctrail/internal/telegraph"
	"github.com/zulandar/doctrail/internal/telegraph/discord"
	"github.com/zulandar/doctrail/internal/telegraph/slack"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Doctrail API server",
		Long: `Runs the HTTP API plus the notification side: completion notices are sent as
documents are marked COMPLETED, and an overdue digest is posted on the
configured cron schedule. Chat channels without credentials are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "doctrail.yaml", "path to Doctrail config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	log := cliLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tg := telegraph.New(telegraph.Opts{
		Adapters: buildAdapters(cfg, log),
		Log:      log,
	})
	tg.Connect(ctx)
	defer tg.Close()

	store := lifecycle.NewGormStore(gormDB)
	svc := lifecycle.NewService(lifecycle.Opts{
		Store:    store,
		Dir:      store,
		Notifier: tg,
		Log:      log,
	})

	go telegraph.RunDigestLoop(ctx, cfg.Notify.DigestCron, func(now time.Time) {
		sendOverdueDigest(ctx, svc, tg, log, now)
	})

	return api.Start(ctx, api.StartOpts{
		Service: svc,
		Port:    cfg.Server.Port,
		Log:     log,
	})
}

// buildAdapters wires one chat adapter per platform with credentials.
func buildAdapters(cfg *config.Config, log zerolog.Logger) []telegraph.Adapter {
	var adapters []telegraph.Adapter

	if cfg.Notify.Slack.BotToken != "" {
		a, err := slack.NewAdapter(slack.AdapterOpts{
			BotToken:  cfg.Notify.Slack.BotToken,
			ChannelID: cfg.Notify.Slack.Channel,
		})
		if err != nil {
			log.Warn().Err(err).Msg("slack adapter skipped")
		} else {
			adapters = append(adapters, a)
		}
	}

	if cfg.Notify.Discord.Token != "" {
		a, err := discord.NewAdapter(discord.AdapterOpts{
			Token:     cfg.Notify.Discord.Token,
			ChannelID: cfg.Notify.Discord.Channel,
		})
		if err != nil {
			log.Warn().Err(err).Msg("discord adapter skipped")
		} else {
			adapters = append(adapters, a)
		}
	}

	return adapters
}

// sendOverdueDigest posts the overdue digest, skipping it when nothing is
// overdue.
func sendOverdueDigest(ctx context.Context, svc *lifecycle.Service, tg *telegraph.Telegraph, log zerolog.Logger, now time.Time) {
	views, err := svc.ListAll(ctx, lifecycle.Filters{}, now)
	if err != nil {
		log.Warn().Err(err).Msg("overdue digest scan failed")
		return
	}
	msg, ok := telegraph.BuildOverdueDigest(views, now)
	if !ok {
		return
	}
	if err := tg.SendDigest(ctx, msg); err != nil {
		log.Warn().Err(err).Msg("overdue digest send failed")
	}
}
