package consumer

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golem-bot/golem/automod/engine"
	"github.com/golem-bot/golem/automod/platform"
	"github.com/golem-bot/golem/automod/rules"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func consumerFixture() (*DiscordConsumer, *engine.MockPlatform) {
	eng, mp := engine.EngineTestFixture()
	eng.Rules = rules.DefaultRules()
	mp.AddChannel("guild1", eng.Config.StaffChannelName, "staff1")

	st := discordgo.NewState()
	_ = st.GuildAdd(&discordgo.Guild{
		ID: "guild1",
		Members: []*discordgo.Member{
			{GuildID: "guild1", User: &discordgo.User{ID: "user2"}},
		},
	})
	sess := &discordgo.Session{State: st}
	dc := &DiscordConsumer{
		Logger:   slog.Default(),
		Session:  sess,
		Platform: platform.NewDiscordPlatform(sess, nil),
		Engine:   &eng,
	}
	return dc, mp
}

func TestHandleMessageCreate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dc, _ := consumerFixture()

	m := &discordgo.Message{
		ID:        "msg1",
		GuildID:   "guild1",
		ChannelID: "chan1",
		Content:   "check out my stream",
		Timestamp: time.Now(),
		Author:    &discordgo.User{ID: "user1"},
		Member:    &discordgo.Member{},
	}
	dc.HandleMessageCreate(ctx, m)
	last, ok, err := dc.Engine.LastMessages.Get(ctx, "user1")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("msg1", last.ID)

	// direct messages are skipped
	dm := *m
	dm.ID = "msg2"
	dm.GuildID = ""
	dc.HandleMessageCreate(ctx, &dm)
	last, _, _ = dc.Engine.LastMessages.Get(ctx, "user1")
	assert.Equal("msg1", last.ID)
}

func TestHandleMessageDelete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dc, mp := consumerFixture()

	// not cached: nothing to inspect
	dc.HandleMessageDelete(ctx, &discordgo.MessageDelete{
		Message: &discordgo.Message{ID: "msg1", GuildID: "guild1", ChannelID: "chan1"},
	})
	assert.Empty(mp.Sent)

	before := &discordgo.Message{
		ID:        "msg1",
		ChannelID: "chan1",
		Content:   "dm me for support",
		Timestamp: time.Now().Add(-30 * time.Second),
		Author:    &discordgo.User{ID: "user1"},
		Member:    &discordgo.Member{},
		Mentions:  []*discordgo.User{{ID: "user2"}},
	}
	dc.HandleMessageDelete(ctx, &discordgo.MessageDelete{
		Message:      &discordgo.Message{ID: "msg1", GuildID: "guild1", ChannelID: "chan1"},
		BeforeDelete: before,
	})
	assert.Equal(2, len(mp.Sent))
	assert.Equal("chan1", mp.Sent[0].ChannelID)
	assert.Equal("staff1", mp.Sent[1].ChannelID)
}

// Cancels the caller's context as soon as a timeout is applied, and fails any later call made with a cancelled context.
type shutdownPlatform struct {
	*engine.MockPlatform
	cancel context.CancelFunc
}

func (p shutdownPlatform) TimeoutMember(ctx context.Context, guildID, userID string, d time.Duration, reason string) error {
	if err := p.MockPlatform.TimeoutMember(ctx, guildID, userID, d, reason); err != nil {
		return err
	}
	p.cancel()
	return nil
}

func (p shutdownPlatform) SendMessage(ctx context.Context, channelID string, msg engine.OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.MockPlatform.SendMessage(ctx, channelID, msg)
}

func (p shutdownPlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.MockPlatform.DeleteMessage(ctx, channelID, messageID)
}

func TestHandleMessageCreateSurvivesShutdown(t *testing.T) {
	assert := assert.New(t)
	dc, mp := consumerFixture()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dc.Engine.Platform = shutdownPlatform{MockPlatform: mp, cancel: cancel}

	now := time.Now()
	for i, id := range []string{"msg1", "msg2"} {
		m := &discordgo.Message{
			ID:        id,
			GuildID:   "guild1",
			ChannelID: "chan1",
			Content:   "check out my stream",
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Author:    &discordgo.User{ID: "user1"},
			Member:    &discordgo.Member{},
		}
		mp.Post(dc.Platform.ConvertMessage(ctx, m))
		dc.HandleMessageCreate(ctx, m)
	}

	// shutdown arrived right after the timeout; the rest of the enforcement still ran
	assert.Error(ctx.Err())
	assert.Equal(1, len(mp.Timeouts))
	assert.Equal(1, len(mp.Sent))
	assert.ElementsMatch([]string{"chan1/msg1", "chan1/msg2"}, mp.Deleted)
	warned, err := dc.Engine.Flags.Get(context.Background(), "user1")
	assert.NoError(err)
	assert.Equal([]string{engine.FlagRepostWarned}, warned)
}
