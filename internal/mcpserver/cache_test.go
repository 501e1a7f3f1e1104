package mcpserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/restspec/parser"
)

func TestDocCache_LRU(t *testing.T) {
	c := newDocCache(2)
	a, b, d := &parser.ParseResult{}, &parser.ParseResult{}, &parser.ParseResult{}

	c.store("a", a, time.Minute)
	c.store("b", b, time.Minute)
	assert.Same(t, a, c.lookup("a"), "lookup marks a as recently used")

	c.store("d", d, time.Minute)
	assert.Equal(t, 2, c.size())
	assert.Nil(t, c.lookup("b"), "b was least recently used")
	assert.Same(t, a, c.lookup("a"))
	assert.Same(t, d, c.lookup("d"))
}

func TestDocCache_Replace(t *testing.T) {
	c := newDocCache(2)
	first, second := &parser.ParseResult{}, &parser.ParseResult{}
	c.store("k", first, time.Minute)
	c.store("k", second, time.Minute)
	assert.Equal(t, 1, c.size())
	assert.Same(t, second, c.lookup("k"))
}

func TestDocCache_Expiry(t *testing.T) {
	c := newDocCache(4)
	c.store("stale", &parser.ParseResult{}, -time.Second)
	c.store("fresh", &parser.ParseResult{}, time.Minute)

	assert.Nil(t, c.lookup("stale"))
	assert.Equal(t, 1, c.size(), "expired entry is dropped on lookup")

	c.store("stale", &parser.ParseResult{}, time.Millisecond)
	c.sweep(time.Now().Add(time.Second))
	assert.Equal(t, 1, c.size())
	assert.NotNil(t, c.lookup("fresh"))

	c.clear()
	assert.Zero(t, c.size())
}

func TestDocCache_Sweeper(t *testing.T) {
	c := newDocCache(4)
	c.store("stale", &parser.ParseResult{}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.startSweeper(ctx, 5*time.Millisecond)
	c.startSweeper(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return c.size() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.Eventually(t, func() bool { return !c.sweeping.Load() }, time.Second, 5*time.Millisecond)
}

func TestSpecInput_CacheKey(t *testing.T) {
	key, ttl := specInput{URL: "https://example.com/get-user.json"}.cacheKey()
	assert.Equal(t, "url:https://example.com/get-user.json", key)
	assert.Equal(t, cfg.CacheURLTTL, ttl)

	k1, _ := specInput{Content: "url: /a"}.cacheKey()
	k2, _ := specInput{Content: "url: /b"}.cacheKey()
	assert.NotEqual(t, k1, k2)

	key, _ = specInput{File: "/does/not/exist.json"}.cacheKey()
	assert.Empty(t, key, "unreadable files are not cached")
}
