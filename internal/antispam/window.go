// Package antispam holds the in-memory counters behind the rate and
// repetition filters. All state here is ephemeral: it is rebuilt from
// scratch on restart and never persisted.
package antispam

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 64

type windowShard struct {
	mu sync.Mutex
	m  map[string][]time.Time
}

// Windows counts events per (chat, user, category) inside a sliding
// time window. Shards reduce lock contention across chats.
type Windows struct {
	shards [shardCount]*windowShard
}

func NewWindows() *Windows {
	w := &Windows{}
	for i := range w.shards {
		w.shards[i] = &windowShard{m: make(map[string][]time.Time)}
	}
	return w
}

func fnvIndex(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32() % shardCount
}

func (w *Windows) shard(key string) *windowShard {
	return w.shards[fnvIndex(key)]
}

// Record registers an event at now and returns how many events remain
// inside the window, the new one included.
func (w *Windows) Record(chatID, userID int64, category string, now time.Time, window time.Duration) int {
	key := fmt.Sprintf("%d:%d:%s", chatID, userID, category)
	sh := w.shard(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	cutoff := now.Add(-window)
	events := sh.m[key]
	kept := events[:0]
	for _, ts := range events {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	sh.m[key] = kept
	return len(kept)
}
