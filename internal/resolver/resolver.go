package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
)

// ProducerLookup reads producer identifiers from the destination store by exact business name
//
//go:generate mockgen -source=resolver.go -destination=../mocks/producer_lookup.go -package=mocks -mock_names=ProducerLookup=MockProducerLookup
type ProducerLookup interface {
	// GetProducerIDByBusinessName returns nil when no producer has that business name
	GetProducerIDByBusinessName(ctx context.Context, name string) (*string, error)

	// GetProducerIDsByBusinessNames returns the identifiers of the names that matched
	GetProducerIDsByBusinessNames(ctx context.Context, names []string) (map[string]string, error)
}

// Resolution is the outcome of resolving one producer name
type Resolution struct {
	// ProducerID is the matched producer, or the fallback when the name did not resolve
	ProducerID *string

	// Unresolved is true when a non-empty name had no match or the lookup failed
	Unresolved bool

	// Err describes why the name did not resolve
	Err error
}

// Resolver maps producer names to identifiers for one sync run.
// Results are cached for the lifetime of the resolver, so a new one is built per run.
type Resolver struct {
	lookup     ProducerLookup
	fallbackID *string

	mu    sync.RWMutex
	cache map[string]*string
}

// New creates a new resolver. An empty fallbackID means no fallback is configured.
func New(lookup ProducerLookup, fallbackID string) *Resolver {
	r := &Resolver{
		lookup: lookup,
		cache:  make(map[string]*string),
	}
	if fallbackID = strings.TrimSpace(fallbackID); fallbackID != "" {
		r.fallbackID = &fallbackID
	}
	return r
}

// Prefetch loads the identifiers of all names with one query.
// Names that do not match are cached as misses. A failed query is logged and
// leaves the cache empty so Resolve falls back to one lookup per name.
func (r *Resolver) Prefetch(ctx context.Context, names []string) {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	if len(unique) == 0 {
		return
	}

	ids, err := r.lookup.GetProducerIDsByBusinessNames(ctx, unique)
	if err != nil {
		logger.WarnCtx(ctx, "Producer prefetch failed, resolving per name", zap.Error(err), zap.Int("names", len(unique)))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range unique {
		if id, ok := ids[name]; ok {
			r.cache[name] = &id
		} else {
			r.cache[name] = nil
		}
	}

	logger.DebugCtx(ctx, "Producer names prefetched", zap.Int("names", len(unique)), zap.Int("matched", len(ids)))
}

// Resolve returns the producer for name.
// An empty name gets the fallback without a query and is not counted as unresolved.
// A name without a match, or whose lookup failed, gets the fallback and is marked unresolved.
// A dish is never left without a producer: when no fallback is configured, both cases
// return an error wrapping domain.ErrConfiguration.
func (r *Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if r.fallbackID == nil {
			return Resolution{}, fmt.Errorf("%w: producer name is empty and no fallback producer configured", domain.ErrConfiguration)
		}
		return Resolution{ProducerID: r.fallback()}, nil
	}

	id, err := r.find(ctx, name)
	if err == nil && id != nil {
		return Resolution{ProducerID: id}, nil
	}

	cause := fmt.Errorf("%w: producer %q", domain.ErrReferenceUnresolved, name)
	if err != nil {
		cause = fmt.Errorf("%w: producer %q: %w", domain.ErrReferenceUnresolved, name, err)
	}

	if r.fallbackID == nil {
		return Resolution{Unresolved: true, Err: cause},
			fmt.Errorf("%w: no fallback producer configured: %w", domain.ErrConfiguration, cause)
	}

	return Resolution{
		ProducerID: r.fallback(),
		Unresolved: true,
		Err:        cause,
	}, nil
}

// find reads the cache, then the store. Misses are cached; lookup errors are not.
func (r *Resolver) find(ctx context.Context, name string) (*string, error) {
	r.mu.RLock()
	id, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return copyID(id), nil
	}

	id, err := r.lookup.GetProducerIDByBusinessName(ctx, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = id
	r.mu.Unlock()

	return copyID(id), nil
}

// fallback returns a copy of the fallback identifier
func (r *Resolver) fallback() *string {
	return copyID(r.fallbackID)
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
