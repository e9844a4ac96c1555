package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnforceEscalation(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, mp := EngineTestFixture()
	assert.NoError(eng.LastMessages.Set(ctx, alice.ID, testMessage("msg1", "hello", time.Now())))

	action, err := eng.Enforce(ctx, alice, testGuild, testChannel, "first reason")
	assert.NoError(err)
	assert.Equal(EnforcementTimeout, action)
	assert.Equal([]MemberAction{{GuildID: testGuild, UserID: alice.ID, Duration: time.Minute, Reason: "first reason"}}, mp.Timeouts)
	assert.Equal([]SentMessage{{
		ChannelID: testChannel,
		Message: OutgoingMessage{
			Content:      "first reason",
			MentionUsers: []string{alice.ID},
			DeleteAfter:  20 * time.Second,
		},
	}}, mp.Sent)
	assert.Empty(mp.Kicks)

	// baseline was reset
	_, ok, err := eng.LastMessages.Get(ctx, alice.ID)
	assert.NoError(err)
	assert.False(ok)

	// every later offense is a kick, however much later
	for i := 0; i < 3; i++ {
		action, err = eng.Enforce(ctx, alice, testGuild, testChannel, "again")
		assert.NoError(err)
		assert.Equal(EnforcementKick, action)
	}
	assert.Equal(3, len(mp.Kicks))
	assert.Equal("again", mp.Kicks[0].Reason)
	assert.Equal(1, len(mp.Timeouts))
	assert.Equal(1, len(mp.Sent))

	flags, err := eng.Flags.Get(ctx, alice.ID)
	assert.NoError(err)
	assert.Equal([]string{FlagRepostWarned}, flags)
}
