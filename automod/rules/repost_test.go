package rules

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golem-bot/golem/automod/engine"

	"github.com/stretchr/testify/assert"
)

func TestRepostSameChannel(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	m1 := message("msg1", general, alice, "check out my stream", t0)
	m2 := message("msg2", general, alice, "check out my stream!!", t0.Add(2*time.Minute))
	mp.Post(m1)
	mp.Post(m2)

	assert.NoError(eng.ProcessMessageCreate(ctx, m1))
	assert.Empty(mp.Timeouts)

	assert.NoError(eng.ProcessMessageCreate(ctx, m2))
	assert.Equal(1, len(mp.Timeouts))
	assert.Equal(time.Minute, mp.Timeouts[0].Duration)
	assert.Equal("<@user100> don't post the same message twice in a short period of time", mp.Timeouts[0].Reason)
	assert.Empty(mp.Kicks)
	assert.ElementsMatch([]string{"chan222/msg1", "chan222/msg2"}, mp.Deleted)

	// the warning is posted where the repost was, and expires
	assert.Equal(1, len(mp.Sent))
	assert.Equal(general, mp.Sent[0].ChannelID)
	assert.Equal(20*time.Second, mp.Sent[0].Message.DeleteAfter)
	assert.Equal([]string{alice.ID}, mp.Sent[0].Message.MentionUsers)
}

func TestRepostCrossChannel(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	t0 := time.Now()
	for _, rulesChannel := range []string{"", "chan444"} {
		eng, mp := engineFixture()
		eng.Config.RulesChannelID = rulesChannel

		m1 := message("msg1", general, alice, "join my server for free nitro", t0)
		m2 := message("msg2", support, alice, "join my server for free nitro.", t0.Add(10*time.Second))
		mp.Post(m1)
		mp.Post(m2)
		assert.NoError(eng.ProcessMessageCreate(ctx, m1))
		assert.NoError(eng.ProcessMessageCreate(ctx, m2))

		assert.Equal(1, len(mp.Timeouts))
		assert.ElementsMatch([]string{"chan222/msg1", "chan333/msg2"}, mp.Deleted)
		if rulesChannel == "" {
			assert.Equal("<@user100> don't post the same message in two channels.", mp.Timeouts[0].Reason)
		} else {
			assert.Equal("<@user100> don't post the same message in two channels. Read <#chan444> to find where your message should be posted", mp.Timeouts[0].Reason)
		}
		assert.Equal(support, mp.Sent[0].ChannelID)
	}
}

func TestRepostEscalatesToKick(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	msgs := []engine.Message{
		message("msg1", general, alice, "check out my stream", t0),
		message("msg2", general, alice, "check out my stream", t0.Add(time.Minute)),
		// after the timeout: new baseline, then a repost
		message("msg3", general, alice, "check out my stream", t0.Add(3*time.Minute)),
		message("msg4", general, alice, "check out my stream", t0.Add(4*time.Minute)),
	}
	for _, m := range msgs {
		mp.Post(m)
	}

	assert.NoError(eng.ProcessMessageCreate(ctx, msgs[0]))
	assert.NoError(eng.ProcessMessageCreate(ctx, msgs[1]))
	assert.Equal(1, len(mp.Timeouts))

	// the first message after enforcement only sets a baseline
	assert.NoError(eng.ProcessMessageCreate(ctx, msgs[2]))
	assert.Empty(mp.Kicks)

	assert.NoError(eng.ProcessMessageCreate(ctx, msgs[3]))
	assert.Equal(1, len(mp.Timeouts))
	assert.Equal(1, len(mp.Kicks))
	assert.Equal(alice.ID, mp.Kicks[0].UserID)
	// no second public warning
	assert.Equal(1, len(mp.Sent))
	assert.Equal(4, len(mp.Deleted))
}

func TestRepostOutsideWindow(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	m1 := message("msg1", general, alice, "check out my stream", t0)
	m2 := message("msg2", general, alice, "check out my stream", t0.Add(25*time.Minute))
	mp.Post(m1)
	mp.Post(m2)
	assert.NoError(eng.ProcessMessageCreate(ctx, m1))
	assert.NoError(eng.ProcessMessageCreate(ctx, m2))
	assert.Empty(mp.Timeouts)
	assert.Empty(mp.Deleted)

	// baseline moved forward to the latest message
	last, ok, err := eng.LastMessages.Get(ctx, alice.ID)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("msg2", last.ID)
}

func TestRepostDissimilar(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	m1 := message("msg1", general, alice, "check out my stream", t0)
	m2 := message("msg2", general, alice, "buy cheap gold today", t0.Add(time.Second))
	mp.Post(m1)
	mp.Post(m2)
	assert.NoError(eng.ProcessMessageCreate(ctx, m1))
	assert.NoError(eng.ProcessMessageCreate(ctx, m2))
	assert.Empty(mp.Timeouts)

	last, ok, err := eng.LastMessages.Get(ctx, alice.ID)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("msg2", last.ID)
}

func TestRepostPreviousAlreadyDeleted(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	m1 := message("msg1", general, alice, "check out my stream", t0)
	m2 := message("msg2", general, alice, "check out my stream", t0.Add(time.Minute))
	// m1 is never made live: it was removed before m2 arrived
	mp.Post(m2)
	assert.NoError(eng.ProcessMessageCreate(ctx, m1))
	assert.NoError(eng.ProcessMessageCreate(ctx, m2))
	assert.Empty(mp.Timeouts)
	assert.Empty(mp.Deleted)

	last, ok, err := eng.LastMessages.Get(ctx, alice.ID)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("msg2", last.ID)
}

func TestRepostIgnoresTrusted(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	m1 := message("msg1", general, mod, "please read the pinned message", t0)
	m2 := message("msg2", support, mod, "please read the pinned message", t0.Add(time.Second))
	mp.Post(m1)
	mp.Post(m2)
	assert.NoError(eng.ProcessMessageCreate(ctx, m1))
	assert.NoError(eng.ProcessMessageCreate(ctx, m2))
	assert.Empty(mp.Timeouts)
	assert.Empty(mp.Deleted)
}

func TestRepostAuthorsAreIndependent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	m1 := message("msg1", general, alice, "anyone else getting disconnects?", t0)
	m2 := message("msg2", general, bob, "anyone else getting disconnects?", t0.Add(time.Second))
	mp.Post(m1)
	mp.Post(m2)
	assert.NoError(eng.ProcessMessageCreate(ctx, m1))
	assert.NoError(eng.ProcessMessageCreate(ctx, m2))
	assert.Empty(mp.Timeouts)
}

func TestRepostReason(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("<@1> don't post the same message twice in a short period of time", RepostReason("1", false, "9"))
	assert.Equal("<@1> don't post the same message in two channels.", RepostReason("1", true, ""))
	assert.Equal("<@1> don't post the same message in two channels. Read <#9> to find where your message should be posted", RepostReason("1", true, "9"))
}

func TestRepostConcurrentAuthors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, mp := engineFixture()

	t0 := time.Now()
	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		author := engine.Member{ID: fmt.Sprintf("user%03d", i)}
		m1 := message(fmt.Sprintf("msg%03da", i), general, author, "check out my stream", t0)
		m2 := message(fmt.Sprintf("msg%03db", i), general, author, "check out my stream", t0.Add(time.Second))
		mp.Post(m1)
		mp.Post(m2)
		wg.Add(1)
		go func() {
			defer wg.Done()
			// events of one author in order; authors interleave freely
			errs <- eng.ProcessMessageCreate(ctx, m1)
			errs <- eng.ProcessMessageCreate(ctx, m2)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(err)
	}
	assert.Equal(20, len(mp.Timeouts))
	assert.Empty(mp.Kicks)
	assert.Equal(40, len(mp.Deleted))
}
