package mcpserver

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/restspec/parser"
)

// docCache keeps parsed specification documents for the lifetime of the
// server. It is an LRU bounded by capacity; entries also expire after a TTL
// chosen by input kind.
type docCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	byKey    map[string]*list.Element
	sweeping atomic.Bool
}

type cachedDoc struct {
	key     string
	result  *parser.ParseResult
	expires time.Time
}

var specCache = newDocCache(cfg.CacheMaxSize)

func newDocCache(capacity int) *docCache {
	return &docCache{
		capacity: capacity,
		order:    list.New(),
		byKey:    make(map[string]*list.Element),
	}
}

// lookup returns the cached result for key, or nil when absent or expired.
func (c *docCache) lookup(key string) *parser.ParseResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.byKey[key]
	if !ok {
		return nil
	}
	doc := el.Value.(*cachedDoc)
	if time.Now().After(doc.expires) {
		c.removeLocked(el)
		return nil
	}
	c.order.MoveToFront(el)
	return doc.result
}

// store adds or replaces key, evicting the least recently used entry when full.
func (c *docCache) store(key string, result *parser.ParseResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc := &cachedDoc{key: key, result: result, expires: time.Now().Add(ttl)}
	if el, ok := c.byKey[key]; ok {
		el.Value = doc
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
	c.byKey[key] = c.order.PushFront(doc)
}

func (c *docCache) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.byKey, el.Value.(*cachedDoc).key)
}

// sweep drops every expired entry.
func (c *docCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if now.After(el.Value.(*cachedDoc).expires) {
			c.removeLocked(el)
		}
		el = next
	}
}

// startSweeper sweeps every interval until ctx is done. Only one sweeper
// runs at a time.
func (c *docCache) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeping.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.sweep(now)
			}
		}
	}()
}

func (c *docCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.byKey = make(map[string]*list.Element)
}

func (c *docCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// cacheKey identifies a document input. Files are keyed by path and
// modification time so edits are picked up; an empty key means "do not cache".
func (s specInput) cacheKey() (string, time.Duration) {
	switch {
	case s.File != "":
		abs, err := filepath.Abs(s.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", 0
		}
		return fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano()), cfg.CacheFileTTL
	case s.URL != "":
		return "url:" + s.URL, cfg.CacheURLTTL
	case s.Content != "":
		sum := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(sum[:]), cfg.CacheContentTTL
	}
	return "", 0
}
