package tenant

import (
	"database/sql"
	"sync"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/metrics"
	"go.uber.org/multierr"
)

// pool is a tenant's *sql.DB plus the count of handles checked out from
// it. A retired pool closes once its last handle is released.
type pool struct {
	id domain.TenantID
	db *sql.DB

	mu      sync.Mutex
	refs    int
	retired bool
	closed  bool
}

func newPool(id domain.TenantID, db *sql.DB) *pool {
	return &pool{id: id, db: db}
}

// acquire takes a reference; it fails once the pool is retired.
func (p *pool) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.retired {
		return false
	}
	p.refs++
	return true
}

func (p *pool) release() {
	p.mu.Lock()
	p.refs--
	shouldClose := p.retired && p.refs == 0 && !p.closed
	if shouldClose {
		p.closed = true
	}
	p.mu.Unlock()

	if shouldClose {
		_ = p.db.Close()
	}
}

// retire stops new checkouts. The pool closes now if idle, otherwise when
// the last handle is released.
func (p *pool) retire() error {
	p.mu.Lock()
	p.retired = true
	shouldClose := p.refs == 0 && !p.closed
	if shouldClose {
		p.closed = true
	}
	p.mu.Unlock()

	if shouldClose {
		return p.db.Close()
	}
	return nil
}

func (p *pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Cache maps tenant ids to live pools. Every Clear starts a new
// generation; pools built for an older generation are never admitted.
type Cache struct {
	mu    sync.RWMutex
	gen   uint64
	pools map[domain.TenantID]*pool
}

func NewCache() *Cache {
	return &Cache{pools: make(map[domain.TenantID]*pool)}
}

// get returns the cached pool for id, if any, and the current generation.
func (c *Cache) get(id domain.TenantID) (*pool, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pools[id], c.gen
}

// put admits p if gen is still current. A pool already holding the slot
// wins and is returned instead. ok is false for a stale generation.
func (c *Cache) put(gen uint64, p *pool) (winner *pool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil, false
	}
	if existing := c.pools[p.id]; existing != nil {
		return existing, true
	}
	c.pools[p.id] = p
	metrics.TenantPoolsActive.Set(float64(len(c.pools)))
	return p, true
}

// Len reports the number of cached pools.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pools)
}

// Generation reports how many times the cache has been cleared.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Clear drops every entry and retires its pool. Handles already checked
// out keep working until released. It returns the number of pools dropped.
func (c *Cache) Clear() (int, error) {
	c.mu.Lock()
	dropped := c.pools
	c.pools = make(map[domain.TenantID]*pool)
	c.gen++
	c.mu.Unlock()

	metrics.TenantPoolsActive.Set(0)

	var err error
	for _, p := range dropped {
		err = multierr.Append(err, p.retire())
	}
	return len(dropped), err
}

// Close retires every pool.
func (c *Cache) Close() error {
	_, err := c.Clear()
	return err
}
