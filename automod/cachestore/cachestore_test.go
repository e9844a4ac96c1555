package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	ID      string
	Content string
}

func TestMemCacheStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCacheStore[entry](10, time.Hour)

	_, ok, err := cs.Get(ctx, "user1")
	assert.NoError(err)
	assert.False(ok)

	assert.NoError(cs.Set(ctx, "user1", entry{ID: "1", Content: "first"}))
	assert.NoError(cs.Set(ctx, "user1", entry{ID: "2", Content: "second"}))
	v, ok, err := cs.Get(ctx, "user1")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("2", v.ID)

	assert.NoError(cs.Purge(ctx, "user1"))
	_, ok, err = cs.Get(ctx, "user1")
	assert.NoError(err)
	assert.False(ok)

	// purging a missing key is a no-op
	assert.NoError(cs.Purge(ctx, "user1"))
}

func TestMemCacheStoreExpiry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCacheStore[entry](10, 10*time.Millisecond)
	assert.NoError(cs.Set(ctx, "user1", entry{ID: "1"}))
	time.Sleep(50 * time.Millisecond)
	_, ok, err := cs.Get(ctx, "user1")
	assert.NoError(err)
	assert.False(ok)
}
