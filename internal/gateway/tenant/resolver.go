package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/metrics"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
	"golang.org/x/sync/singleflight"
)

// DefaultConnectTimeout bounds one pool construction.
const DefaultConnectTimeout = 10 * time.Second

// maxAttempts bounds retries when a Reset retires the pool being used.
const maxAttempts = 3

// Resolver maps a tenant id to a checked-out connection on that tenant's
// partition, building the partition's pool on first use.
type Resolver struct {
	cache          *Cache
	connector      Connector
	defaultDB      *sql.DB
	connectTimeout time.Duration

	targets atomic.Pointer[Targets]
	group   singleflight.Group
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Cache holds built pools. A fresh cache is used when nil.
	Cache *Cache

	// Connector builds pools. Defaults to SQLConnector.
	Connector Connector

	// Default backs the default tenant. It is never closed by the resolver.
	Default *sql.DB

	Targets        *Targets
	ConnectTimeout time.Duration
}

func NewResolver(opts ResolverOptions) *Resolver {
	if opts.Cache == nil {
		opts.Cache = NewCache()
	}
	if opts.Connector == nil {
		opts.Connector = SQLConnector{}
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.Targets == nil {
		opts.Targets = &Targets{}
	}

	r := &Resolver{
		cache:          opts.Cache,
		connector:      opts.Connector,
		defaultDB:      opts.Default,
		connectTimeout: opts.ConnectTimeout,
	}
	r.targets.Store(opts.Targets)
	return r
}

// Targets returns the partition set in use.
func (r *Resolver) Targets() *Targets { return r.targets.Load() }

// Resolve checks out a connection for id. The caller must Release the
// handle. Unknown ids yield ErrUnknownTenant; unreachable partitions
// yield ErrResolution.
func (r *Resolver) Resolve(ctx context.Context, id domain.TenantID) (*Handle, error) {
	if id == "" {
		metrics.TenantResolutionsTotal.WithLabelValues("unknown").Inc()
		return nil, ErrUnknownTenant
	}

	if id.IsDefault() {
		if r.defaultDB == nil {
			return nil, fmt.Errorf("%w: no default store", ErrResolution)
		}
		conn, err := r.defaultDB.Conn(ctx)
		if err != nil {
			metrics.TenantResolutionsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: default store: %w", ErrResolution, err)
		}
		metrics.TenantResolutionsTotal.WithLabelValues("hit").Inc()
		return newHandle(id, conn, nil), nil
	}

	for range maxAttempts {
		p, gen := r.cache.get(id)
		outcome := "hit"
		if p == nil {
			var err error
			if p, err = r.build(ctx, id, gen); err != nil {
				return nil, err
			}
			outcome = "built"
		}

		// Reset retired this pool between lookup and checkout.
		if !p.acquire() {
			continue
		}

		conn, err := p.db.Conn(ctx)
		if err != nil {
			p.release()
			metrics.TenantResolutionsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: tenant %s: %w", ErrResolution, id, err)
		}

		metrics.TenantResolutionsTotal.WithLabelValues(outcome).Inc()
		return newHandle(id, conn, p), nil
	}

	metrics.TenantResolutionsTotal.WithLabelValues("error").Inc()
	return nil, fmt.Errorf("%w: tenant %s: cache reset during checkout", ErrResolution, id)
}

// build constructs the pool for id once per cache generation, however many
// requests ask for it concurrently. A waiter whose ctx ends stops waiting
// but the construction carries on for the others.
func (r *Resolver) build(ctx context.Context, id domain.TenantID, gen uint64) (*pool, error) {
	target, ok := r.Targets().Lookup(id)
	if !ok {
		metrics.TenantResolutionsTotal.WithLabelValues("unknown").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnknownTenant, id)
	}

	key := id.String() + "#" + strconv.FormatUint(gen, 10)
	ch := r.group.DoChan(key, func() (any, error) {
		return r.construct(context.WithoutCancel(ctx), id, gen, target)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			metrics.TenantResolutionsTotal.WithLabelValues("error").Inc()
			return nil, res.Err
		}
		return res.Val.(*pool), nil
	case <-ctx.Done():
		metrics.TenantResolutionsTotal.WithLabelValues("cancelled").Inc()
		return nil, fmt.Errorf("%w: tenant %s: %w", ErrResolution, id, ctx.Err())
	}
}

func (r *Resolver) construct(ctx context.Context, id domain.TenantID, gen uint64, target Target) (*pool, error) {
	l := slogx.FromContext(ctx).With(slog.String("tenant_id", id.String()))

	// Another flight for this generation may have finished already.
	if p, current := r.cache.get(id); p != nil && current == gen {
		return p, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := r.connector.Connect(ctx, id, target)
	if err != nil {
		metrics.TenantPoolConstructionsTotal.WithLabelValues("error").Inc()
		l.Error("tenant pool construction failed",
			slog.String("driver", target.Driver),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	metrics.TenantPoolConstructionsTotal.WithLabelValues("ok").Inc()

	p := newPool(id, db)
	winner, ok := r.cache.put(gen, p)
	switch {
	case !ok:
		// Reset ran while connecting. Hand back a retired pool so callers
		// retry against the new generation.
		_ = p.retire()
		l.Info("discarded tenant pool built before reset")
		return p, nil
	case winner != p:
		_ = p.retire()
		return winner, nil
	}

	l.Info("tenant pool ready",
		slog.String("driver", target.Driver),
		slog.Duration("took", time.Since(start)),
	)
	return p, nil
}

// Generation reports how many resets the cache has seen.
func (r *Resolver) Generation() uint64 { return r.cache.Generation() }

// Reset drops every cached pool. In-flight handles stay valid; their pools
// close once released. The default store is untouched.
func (r *Resolver) Reset(ctx context.Context) (int, error) {
	n, err := r.cache.Clear()
	l := slogx.FromContext(ctx)
	if err != nil {
		l.Warn("errors closing tenant pools", slog.String("error", err.Error()))
	}
	l.Info("tenant connection cache reset", slog.Int("pools", n))
	return n, err
}

// Reload swaps the partition set and resets the cache.
func (r *Resolver) Reload(ctx context.Context, targets *Targets) error {
	if targets == nil {
		return errors.New("tenant: nil targets")
	}
	r.targets.Store(targets)
	slogx.FromContext(ctx).Info("tenant partitions reloaded", slog.Int("tenants", targets.Len()))
	_, err := r.Reset(ctx)
	return err
}

// Close retires every pool. The default store is left open.
func (r *Resolver) Close() error {
	return r.cache.Close()
}
