package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTrusted(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, mp := EngineTestFixture()

	fixtures := []struct {
		member  Member
		trusted bool
	}{
		{member: Member{ID: mp.BotID}, trusted: true},
		{member: Member{ID: "user1", RoleNames: []string{"Parsec Team"}}, trusted: true},
		{member: Member{ID: "user2", RoleNames: []string{"Member", "Hero"}}, trusted: true},
		{member: Member{ID: "user3", RoleNames: []string{"Member"}}, trusted: false},
		{member: Member{ID: "user4"}, trusted: false},
		// role names are matched exactly
		{member: Member{ID: "user5", RoleNames: []string{"jedi"}}, trusted: false},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.trusted, eng.IsTrusted(ctx, fix.member), fix.member.ID)
		// no hidden state: asking again gives the same answer
		assert.Equal(fix.trusted, eng.IsTrusted(ctx, fix.member), fix.member.ID)
	}
}

func TestIsTrustedFollowsRoleChanges(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, _ := EngineTestFixture()
	m := Member{ID: "user1", RoleNames: []string{"Jedi"}}
	assert.True(eng.IsTrusted(ctx, m))
	m.RoleNames = nil
	assert.False(eng.IsTrusted(ctx, m))
}
