package antispam

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const albumCacheSize = 4096

// Albums deduplicates media-group items so that an album of N photos is
// moderated once, not N times. Seen group ids are kept in a bounded LRU;
// eviction only means an extremely old album could be re-checked, which
// is harmless.
type Albums struct {
	cache *lru.Cache[string, time.Time]
}

func NewAlbums() *Albums {
	cache, err := lru.New[string, time.Time](albumCacheSize)
	if err != nil {
		panic(err)
	}
	return &Albums{cache: cache}
}

// Observe records an album item and reports whether it is the first
// item of its group seen by this process.
func (a *Albums) Observe(chatID, userID int64, groupID string, now time.Time) bool {
	key := fmt.Sprintf("%d:%d:%s", chatID, userID, groupID)
	seen, _ := a.cache.ContainsOrAdd(key, now)
	return !seen
}
