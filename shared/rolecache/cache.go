package rolecache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/logger"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "role_cache_refresh_total",
			Help: "Total number of role cache refreshes by outcome",
		},
		[]string{"outcome"},
	)

	cachedRoles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "role_cache_entries",
			Help: "Number of roles currently held in the role cache",
		},
	)
)

// RoleSource is the only storage read the cache needs.
type RoleSource interface {
	FindAllRoles(ctx context.Context) ([]domain.Role, error)
}

// Cache keeps every role in memory so request paths can map titles to ids
// without a storage round trip.
type Cache struct {
	source          RoleSource
	byTitle         map[domain.RoleTitle]domain.Role
	byId            map[domain.RoleId]domain.Role
	ordered         []domain.Role
	mu              sync.RWMutex
	lastRefreshTime time.Time

	// refreshMu spans the read and the swap so an older snapshot never
	// replaces a newer one.
	refreshMu sync.Mutex
}

func New(source RoleSource) *Cache {
	return &Cache{
		source:  source,
		byTitle: make(map[domain.RoleTitle]domain.Role),
		byId:    make(map[domain.RoleId]domain.Role),
		ordered: []domain.Role{},
	}
}

// Refresh reloads all roles and replaces the cached set in one swap.
// Concurrent refreshes run one at a time.
func (c *Cache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	roles, err := c.source.FindAllRoles(ctx)
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		return err
	}

	byTitle := make(map[domain.RoleTitle]domain.Role, len(roles))
	byId := make(map[domain.RoleId]domain.Role, len(roles))
	for _, role := range roles {
		byTitle[role.Title] = role
		byId[role.Id] = role
	}
	ordered := append([]domain.Role{}, roles...)

	c.mu.Lock()
	c.byTitle = byTitle
	c.byId = byId
	c.ordered = ordered
	c.lastRefreshTime = time.Now()
	c.mu.Unlock()

	refreshTotal.WithLabelValues("ok").Inc()
	cachedRoles.Set(float64(len(roles)))
	logger.Log.Debug("role cache refreshed",
		"component", "role_cache",
		"entries", len(roles))
	return nil
}

func (c *Cache) ByTitle(title domain.RoleTitle) (domain.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	role, ok := c.byTitle[title]
	return role, ok
}

func (c *Cache) ById(id domain.RoleId) (domain.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	role, ok := c.byId[id]
	return role, ok
}

// All returns a copy of the cached roles in storage order.
func (c *Cache) All() []domain.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Role{}, c.ordered...)
}

// IdsByTitles maps titles to ids. The second result lists titles that are not cached.
func (c *Cache) IdsByTitles(titles []domain.RoleTitle) ([]domain.RoleId, []domain.RoleTitle) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]domain.RoleId, 0, len(titles))
	var unknown []domain.RoleTitle
	for _, title := range titles {
		role, ok := c.byTitle[title]
		if !ok {
			unknown = append(unknown, title)
			continue
		}
		ids = append(ids, role.Id)
	}
	return ids, unknown
}

func (c *Cache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefreshTime
}

// StartBackgroundUpdate refreshes the cache every interval until ctx is done.
func (c *Cache) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started role cache background updates",
		"component", "role_cache",
		"interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					logger.Log.Error("role cache refresh failed",
						"component", "role_cache",
						"error", err)
				}
			case <-ctx.Done():
				logger.Log.Info("role cache shutting down gracefully",
					"component", "role_cache")
				return
			}
		}
	}()
}
