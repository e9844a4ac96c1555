package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/golem-bot/golem/automod"
	"github.com/golem-bot/golem/automod/platform"

	"github.com/bwmarrin/discordgo"
)

// Gateway intents needed to see guild messages and their content
var Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

type DiscordConsumer struct {
	Logger   *slog.Logger
	Session  *discordgo.Session
	Platform *platform.DiscordPlatform
	Engine   *automod.Engine

	// counts events handed to the engine, for logging on shutdown
	processed atomic.Int64
}

// Connects to the gateway and feeds message events to the engine until the context is cancelled.
//
// discordgo runs each event handler in its own goroutine, so events are processed concurrently.
func (dc *DiscordConsumer) Run(ctx context.Context) error {
	if dc.Engine == nil {
		return fmt.Errorf("nil engine")
	}
	if dc.Session == nil {
		return fmt.Errorf("nil session")
	}

	dc.Session.Identify.Intents = Intents
	// deleted messages can only be inspected if they are still in the state cache
	if dc.Session.State.MaxMessageCount == 0 {
		dc.Session.State.MaxMessageCount = 1000
	}

	removeReady := dc.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		dc.Logger.Info("connected to discord gateway", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	removeCreate := dc.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		dc.HandleMessageCreate(ctx, m.Message)
	})
	removeDelete := dc.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageDelete) {
		dc.HandleMessageDelete(ctx, m)
	})
	defer removeReady()
	defer removeCreate()
	defer removeDelete()

	dc.Logger.Info("opening discord gateway connection")
	if err := dc.Session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway connection: %w", err)
	}
	<-ctx.Done()
	dc.Logger.Info("closing discord gateway connection", "processed", dc.processed.Load())
	return dc.Session.Close()
}

// Processes one created message. Shutdown does not interrupt processing once started: the context's values are kept but its cancellation is dropped, so an enforcement is never left half applied.
func (dc *DiscordConsumer) HandleMessageCreate(ctx context.Context, m *discordgo.Message) {
	// direct messages are out of scope
	if m.GuildID == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	msg := dc.Platform.ConvertMessage(ctx, m)
	dc.processed.Add(1)
	if err := dc.Engine.ProcessMessageCreate(ctx, msg); err != nil {
		dc.Logger.Error("processing message failed", "guild", msg.GuildID, "channel", msg.ChannelID, "message", msg.ID, "err", err)
	}
}

// Processes one deleted message. Like HandleMessageCreate, not cancelled by shutdown once started.
func (dc *DiscordConsumer) HandleMessageDelete(ctx context.Context, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if m.BeforeDelete == nil {
		dc.Logger.Debug("deleted message not in cache", "channel", m.ChannelID, "message", m.ID)
		return
	}
	before := *m.BeforeDelete
	if before.GuildID == "" {
		before.GuildID = m.GuildID
	}
	msg := dc.Platform.ConvertMessage(ctx, &before)
	dc.processed.Add(1)
	if err := dc.Engine.ProcessMessageDelete(ctx, msg); err != nil {
		dc.Logger.Error("processing message deletion failed", "guild", msg.GuildID, "channel", msg.ChannelID, "message", msg.ID, "err", err)
	}
}
