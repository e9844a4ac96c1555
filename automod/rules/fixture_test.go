package rules

import (
	"time"

	"github.com/golem-bot/golem/automod/engine"
)

var (
	testGuild = "guild111"
	general   = "chan222"
	support   = "chan333"
	staff     = "chan999"

	alice = engine.Member{ID: "user100", Username: "alice"}
	bob   = engine.Member{ID: "user200", Username: "bob"}
	mod   = engine.Member{ID: "user300", Username: "mod", RoleNames: []string{"Parsec Team"}}
)

func engineFixture() (engine.Engine, *engine.MockPlatform) {
	eng, mp := engine.EngineTestFixture()
	eng.Rules = DefaultRules()
	mp.AddChannel(testGuild, eng.Config.StaffChannelName, staff)
	return eng, mp
}

func message(id, channelID string, author engine.Member, content string, createdAt time.Time) engine.Message {
	return engine.Message{
		ID:        id,
		GuildID:   testGuild,
		ChannelID: channelID,
		Author:    author,
		Content:   content,
		CreatedAt: createdAt,
	}
}
