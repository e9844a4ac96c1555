package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golem-bot/golem/automod"
	"github.com/golem-bot/golem/automod/helpers"
	"github.com/golem-bot/golem/util/cliutil"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "golem",
		Usage:   "discord moderation bot (repost and scam-deletion watcher)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			EnvVars: []string{"GOLEM_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format: text or json",
			EnvVars: []string{"GOLEM_LOG_FMT", "LOG_FMT"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		similarityCmd,
	}

	return app.Run(args)
}

func configLogger(cctx *cli.Context) (*slog.Logger, error) {
	return cliutil.SetupSlog(cliutil.LogOptions{
		LogLevel:  cctx.String("log-level"),
		LogFormat: cctx.String("log-format"),
	})
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "connect to discord and moderate",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "discord-token",
			Usage:    "bot token for the discord API",
			Required: true,
			EnvVars:  []string{"GOLEM_DISCORD_TOKEN", "DISCORD_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"GOLEM_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "sets-json-path",
			Usage:   "file path of JSON file containing static sets (eg, trusted-roles)",
			EnvVars: []string{"GOLEM_SETS_JSON_PATH"},
		},
		&cli.StringFlag{
			Name:    "staff-channel",
			Usage:   "name of the text channel which receives staff reports",
			Value:   automod.DefaultConfig().StaffChannelName,
			EnvVars: []string{"GOLEM_STAFF_CHANNEL"},
		},
		&cli.StringFlag{
			Name:    "rules-channel-id",
			Usage:   "channel pointed to when a member cross-posts (optional)",
			EnvVars: []string{"GOLEM_RULES_CHANNEL_ID"},
		},
		&cli.Float64Flag{
			Name:    "similarity-threshold",
			Usage:   "messages more similar than this ratio count as reposts",
			Value:   automod.DefaultConfig().SimilarityThreshold,
			EnvVars: []string{"GOLEM_SIMILARITY_THRESHOLD"},
		},
		&cli.DurationFlag{
			Name:    "repost-window",
			Usage:   "max time between two messages for the second to be a repost",
			Value:   automod.DefaultConfig().RepostWindow,
			EnvVars: []string{"GOLEM_REPOST_WINDOW"},
		},
		&cli.DurationFlag{
			Name:    "timeout-duration",
			Usage:   "length of the timeout given on a first repost",
			Value:   automod.DefaultConfig().TimeoutDuration,
			EnvVars: []string{"GOLEM_TIMEOUT_DURATION"},
		},
		&cli.DurationFlag{
			Name:    "warning-lifetime",
			Usage:   "how long the public repost warning stays up",
			Value:   automod.DefaultConfig().WarningLifetime,
			EnvVars: []string{"GOLEM_WARNING_LIFETIME"},
		},
		&cli.DurationFlag{
			Name:    "suspicious-deletion-window",
			Usage:   "deletions of messages younger than this can be suspicious",
			Value:   automod.DefaultConfig().SuspiciousDeletionWindow,
			EnvVars: []string{"GOLEM_SUSPICIOUS_DELETION_WINDOW"},
		},
		&cli.DurationFlag{
			Name:    "audit-window",
			Usage:   "how far back the audit log is searched for a moderator action explaining a deletion",
			Value:   automod.DefaultConfig().AuditWindow,
			EnvVars: []string{"GOLEM_AUDIT_WINDOW"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "also mirror staff reports to this slack incoming webhook",
			EnvVars: []string{"SLACK_WEBHOOK_URL"},
		},
		&cli.IntFlag{
			Name:    "message-cache-size",
			Usage:   "messages kept per channel in the state cache; deletions of older messages can't be inspected",
			Value:   1000,
			EnvVars: []string{"GOLEM_MESSAGE_CACHE_SIZE"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger, err := configLogger(cctx)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := configOTEL(ctx, "golem")
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				logger.Error("failed to shutdown trace exporter", "error", err)
			}
		}()

		srv, err := NewServer(Config{
			DiscordToken:     cctx.String("discord-token"),
			SetsFileJSON:     cctx.String("sets-json-path"),
			SlackWebhookURL:  cctx.String("slack-webhook-url"),
			MessageCacheSize: cctx.Int("message-cache-size"),
			MetricsListen:    cctx.String("metrics-listen"),
			Automod:          automodConfig(cctx),
			Logger:           logger,
		})
		if err != nil {
			return err
		}

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("failed to run automod service: %w", err)
		}
		logger.Info("shutdown complete")
		return nil
	},
}

// Moderation policy from the run command's flags.
func automodConfig(cctx *cli.Context) automod.Config {
	config := automod.DefaultConfig()
	config.StaffChannelName = cctx.String("staff-channel")
	config.RulesChannelID = cctx.String("rules-channel-id")
	config.SimilarityThreshold = cctx.Float64("similarity-threshold")
	config.RepostWindow = cctx.Duration("repost-window")
	config.TimeoutDuration = cctx.Duration("timeout-duration")
	config.WarningLifetime = cctx.Duration("warning-lifetime")
	config.SuspiciousDeletionWindow = cctx.Duration("suspicious-deletion-window")
	config.AuditWindow = cctx.Duration("audit-window")
	return config
}

var similarityCmd = &cli.Command{
	Name:      "similarity",
	Usage:     "print the similarity ratio of two strings, as used for repost detection",
	ArgsUsage: "<text-a> <text-b>",
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 2 {
			return fmt.Errorf("expected exactly two arguments")
		}
		a, b := cctx.Args().Get(0), cctx.Args().Get(1)
		ratio := helpers.Similarity(a, b)
		threshold := automod.DefaultConfig().SimilarityThreshold
		fmt.Printf("%.4f (repost above %.2f: %v)\n", ratio, threshold, ratio > threshold)
		return nil
	},
}
