package binder

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/attrbind/logger"
	"github.com/teranos/attrbind/syntax"
)

// BindAll binds sites in parallel and returns one record per site in
// input order. Cancellation stops dispatching new sites; a site already
// being bound runs to completion. Records for sites never dispatched are
// nil and the context error is returned alongside.
func (r *Resolver) BindAll(ctx context.Context, sites []*syntax.Attribute) ([]*Record, error) {
	return r.Rebind(ctx, sites, nil)
}

// Rebind is BindAll with prior records from an earlier pass. prior is
// either nil or aligned with sites; error-free prior records only have
// their omitted flag recomputed.
func (r *Resolver) Rebind(ctx context.Context, sites []*syntax.Attribute, prior []*Record) ([]*Record, error) {
	session := uuid.New().String()
	ctx = logger.WithSession(ctx, session)
	ctx = logger.WithComponent(ctx, "binder.batch")
	log := logger.LoggerFromContext(ctx, r.logger)

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	records := make([]*Record, len(sites))
	start := time.Now()
	log.Debugw("binding batch",
		logger.FieldCount, len(sites),
		logger.FieldWorkers, workers)

	// binds never fail; the group only bounds parallelism
	var g errgroup.Group
	g.SetLimit(workers)

	var dispatchErr error
	for i, site := range sites {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}
		var p *Record
		if prior != nil && i < len(prior) {
			p = prior[i]
		}
		g.Go(func() error {
			records[i] = r.Bind(ctx, site, p)
			return nil
		})
	}
	_ = g.Wait()

	errorCount := 0
	for _, rec := range records {
		if rec != nil && rec.HasErrors() {
			errorCount++
		}
	}
	stats := r.PoolStats()
	log.Infow("batch complete",
		logger.FieldCount, len(sites),
		logger.FieldErrors, errorCount,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		"pool_acquired", stats.Acquired,
		"pool_released", stats.Released)

	return records, dispatchErr
}
