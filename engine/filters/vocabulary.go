// Package filters owns the filter and sort controls: the current
// constraint mapping, the sort directive and the option vocabularies the
// controls are populated from.
package filters

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/WessleyAI/encarview/engine/catalog"
)

// fetchTimeout bounds one options fetch. The fetch is detached from the
// caller's cancellation because its result is shared by every reader.
const fetchTimeout = 10 * time.Second

// OptionsSource is the subset of the API client that serves vocabularies.
type OptionsSource interface {
	GetFilterOptions(ctx context.Context) (catalog.FilterOptions, error)
}

// Vocabulary caches the filter options for many concurrent readers. With a
// zero TTL the first attempt, successful or not, is kept for the lifetime
// of the Vocabulary; otherwise the options are refetched once they are
// older than the TTL.
type Vocabulary struct {
	src OptionsSource
	ttl time.Duration
	log *slog.Logger
	now func() time.Time

	mu        sync.Mutex
	opts      catalog.FilterOptions
	fetched   bool
	fetchedAt time.Time
	err       error
}

// NewVocabulary creates a Vocabulary backed by src.
func NewVocabulary(src OptionsSource, ttl time.Duration, logger *slog.Logger) *Vocabulary {
	if logger == nil {
		logger = slog.Default()
	}
	return &Vocabulary{
		src:  src,
		ttl:  ttl,
		log:  logger.With("component", "filters"),
		now:  time.Now,
		opts: catalog.DefaultFilterOptions(),
	}
}

// Options returns the cached options, fetching them first when the cache
// is empty or stale. Fetch failures are logged and the previous options (or
// the defaults) are returned; they never block the caller's page.
func (v *Vocabulary) Options(ctx context.Context) catalog.FilterOptions {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.fetched && (v.ttl <= 0 || v.now().Sub(v.fetchedAt) < v.ttl) {
		return v.opts
	}

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
	defer cancel()
	opts, err := v.src.GetFilterOptions(fctx)
	v.fetched = true
	v.fetchedAt = v.now()
	v.err = err
	if err != nil {
		v.log.Error("load filter options", "error", err)
		return v.opts
	}
	v.opts = opts
	return v.opts
}

// Err returns the error of the last fetch attempt, if any.
func (v *Vocabulary) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Invalidate forces the next Options call to refetch.
func (v *Vocabulary) Invalidate() {
	v.mu.Lock()
	v.fetched = false
	v.mu.Unlock()
}
