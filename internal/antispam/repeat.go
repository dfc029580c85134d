package antispam

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"telegram-guard-bot/internal/utils"
)

type repeatState struct {
	hash  string
	count int
}

type repeatShard struct {
	mu sync.Mutex
	m  map[string]repeatState
}

// Repeats tracks how many identical messages in a row each user has
// sent per chat, keyed by a fingerprint of the normalized text.
type Repeats struct {
	shards [shardCount]*repeatShard
}

func NewRepeats() *Repeats {
	r := &Repeats{}
	for i := range r.shards {
		r.shards[i] = &repeatShard{m: make(map[string]repeatState)}
	}
	return r
}

// Fingerprint reduces message text to a short stable digest. Messages
// differing only in case or whitespace share a fingerprint.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(utils.NormalizeText(text)))
	return hex.EncodeToString(sum[:])[:16]
}

// Record notes a message with the given fingerprint and returns the
// current run length. A different fingerprint resets the run to 1.
func (r *Repeats) Record(chatID, userID int64, fingerprint string) int {
	key := fmt.Sprintf("%d:%d", chatID, userID)
	sh := r.shards[fnvIndex(key)]

	sh.mu.Lock()
	defer sh.mu.Unlock()

	st := sh.m[key]
	if st.hash == fingerprint {
		st.count++
	} else {
		st = repeatState{hash: fingerprint, count: 1}
	}
	sh.m[key] = st
	return st.count
}
