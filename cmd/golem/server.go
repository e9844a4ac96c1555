package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golem-bot/golem/automod"
	"github.com/golem-bot/golem/automod/cachestore"
	"github.com/golem-bot/golem/automod/consumer"
	"github.com/golem-bot/golem/automod/engine"
	"github.com/golem-bot/golem/automod/flagstore"
	"github.com/golem-bot/golem/automod/platform"
	"github.com/golem-bot/golem/automod/rules"
	"github.com/golem-bot/golem/automod/setstore"
	"github.com/golem-bot/golem/util"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	logger        *slog.Logger
	engine        *automod.Engine
	consumer      *consumer.DiscordConsumer
	metricsListen string
}

type Config struct {
	DiscordToken     string
	SetsFileJSON     string
	SlackWebhookURL  string
	MessageCacheSize int
	MetricsListen    string
	Automod          automod.Config
	Logger           *slog.Logger
}

// Builds the in-memory stores and engine. Nothing is persisted: repost baselines and warnings are forgotten on restart.
func NewEngine(plat automod.Platform, config Config) (*automod.Engine, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sets := setstore.NewMemSetStore()
	if config.SetsFileJSON != "" {
		if err := sets.LoadFromFileJSON(config.SetsFileJSON); err != nil {
			return nil, fmt.Errorf("initializing in-process setstore: %v", err)
		} else {
			logger.Info("loaded set config from JSON", "path", config.SetsFileJSON)
		}
	}
	if _, ok := sets.Sets[config.Automod.TrustedRolesSet]; !ok {
		sets.Insert(config.Automod.TrustedRolesSet, engine.DefaultTrustedRoles...)
		logger.Info("using default trusted roles", "roles", engine.DefaultTrustedRoles)
	}

	eng := automod.Engine{
		Logger:       logger,
		Platform:     plat,
		Rules:        rules.DefaultRules(),
		Config:       config.Automod,
		Sets:         sets,
		LastMessages: cachestore.NewMemCacheStore[automod.Message](50_000, config.Automod.RepostWindow),
		Flags:        flagstore.NewMemFlagStore(),
		Notifier: &automod.StaffChannelNotifier{
			Platform:    plat,
			ChannelName: config.Automod.StaffChannelName,
		},
		SlackWebhookURL: config.SlackWebhookURL,
		HTTPClient:      util.RobustHTTPClient(logger),
	}
	return &eng, nil
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sess, err := discordgo.New("Bot " + config.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	sess.State.MaxMessageCount = config.MessageCacheSize
	plat := platform.NewDiscordPlatform(sess, logger)

	eng, err := NewEngine(plat, config)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger:        logger,
		engine:        eng,
		metricsListen: config.MetricsListen,
		consumer: &consumer.DiscordConsumer{
			Logger:   logger.With("component", "consumer"),
			Session:  sess,
			Platform: plat,
			Engine:   eng,
		},
	}
	return s, nil
}

// Runs the gateway consumer and the metrics endpoint until the context is cancelled, or either fails.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.consumer.Run(ctx)
	})
	g.Go(func() error {
		return s.RunMetrics(ctx, s.metricsListen)
	})
	return g.Wait()
}

func (s *Server) RunMetrics(ctx context.Context, listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("failed to shutdown metrics endpoint", "error", err)
		}
	}()
	s.logger.Info("serving metrics", "listen", listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics endpoint: %w", err)
	}
	return nil
}
