package blacklist

import (
	"context"
	"sync"
	"time"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/logger"
)

// Cache remembers users whose sessions were revoked (account removed or role
// changed). Tokens issued before the revocation are rejected until they would
// have expired anyway, after which the entry is pruned.
type Cache struct {
	mu      sync.RWMutex
	revoked map[domain.UserId]time.Time
	jwtTTL  time.Duration
	now     func() time.Time
}

func NewCache(jwtTTL time.Duration) *Cache {
	return &Cache{
		revoked: make(map[domain.UserId]time.Time),
		jwtTTL:  jwtTTL,
		now:     time.Now,
	}
}

// Add revokes every token of the user issued up to now.
func (bc *Cache) Add(userId domain.UserId) {
	bc.mu.Lock()
	bc.revoked[userId] = bc.now()
	bc.mu.Unlock()

	logger.Log.Info("sessions revoked", "component", "blacklist_cache", "user_id", userId)
}

// RevokeSessions satisfies the user service's revoker.
func (bc *Cache) RevokeSessions(userId domain.UserId) {
	bc.Add(userId)
}

// IsBlacklisted reports whether a token issued at issuedAt was revoked.
func (bc *Cache) IsBlacklisted(userId domain.UserId, issuedAt time.Time) bool {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	revokedAt, ok := bc.revoked[userId]
	if !ok {
		return false
	}
	return !issuedAt.After(revokedAt)
}

// Prune drops entries older than the token TTL plus a 10% buffer for clock
// skew. It returns the number of entries left.
func (bc *Cache) Prune() int {
	cutoff := bc.now().Add(-time.Duration(float64(bc.jwtTTL) * 1.1))

	bc.mu.Lock()
	defer bc.mu.Unlock()
	for id, revokedAt := range bc.revoked {
		if revokedAt.Before(cutoff) {
			delete(bc.revoked, id)
		}
	}
	return len(bc.revoked)
}

// StartBackgroundUpdate prunes the cache periodically until ctx is done.
func (bc *Cache) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started blacklist cache background pruning",
		"component", "blacklist_cache",
		"interval", interval,
		"jwt_ttl", bc.jwtTTL)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				left := bc.Prune()
				logger.Log.Debug("blacklist cache pruned", "component", "blacklist_cache", "entries", left)
			case <-ctx.Done():
				logger.Log.Info("blacklist cache shutting down gracefully",
					"component", "blacklist_cache")
				return
			}
		}
	}()
}
