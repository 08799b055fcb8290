// Package reconcile pulls canonical taxonomy data from the Hub and merges it
// into the local store.
//
// A run walks the selected categories one at a time. For each category the
// payload is fetched, its layout detected, and every record normalized and
// upserted individually, so one bad record or one unreachable endpoint never
// stops the rest of the run.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"colortrainer/internal/broadcast"
	"colortrainer/internal/taxonomy"
)

// Fetcher returns the decoded JSON document served at a Hub path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (any, error)
}

// Store is the local persistence the engine writes to. Upserts must only
// write the columns present in the patch.
type Store interface {
	Ping(ctx context.Context) error
	UpsertSubtype(ctx context.Context, u taxonomy.SubtypeUpsert) error
	UpsertTerm(ctx context.Context, u taxonomy.TermUpsert) error
}

// Publisher receives progress events. *broadcast.Hub satisfies it.
type Publisher interface {
	BroadcastJSON(v any)
}

type Engine struct {
	fetcher   Fetcher
	store     Store
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(fetcher Fetcher, store Store, opts ...Option) *Engine {
	e := &Engine{
		fetcher: fetcher,
		store:   store,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run reconciles every category selected by scope. It never returns an
// error: transport and record failures are reported per category, and only
// an unreachable store or an unexpected panic yields Success == false.
func (e *Engine) Run(ctx context.Context, scope Scope) (resp *SyncResponse) {
	runID := uuid.NewString()
	log := e.logger.With(zap.String("run_id", runID), zap.String("scope", string(scope)))
	started := e.now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("hub sync panicked", zap.Any("panic", r), zap.Stack("stacktrace"))
			resp = e.failed(runID, fmt.Errorf("hub sync aborted: %v", r))
		}
	}()

	cats := selectCategories(scope)
	if len(cats) == 0 {
		return e.failed(runID, fmt.Errorf("%w: %q", ErrInvalidScope, scope))
	}

	if err := e.store.Ping(ctx); err != nil {
		log.Error("local store unavailable", zap.Error(err))
		return e.failed(runID, fmt.Errorf("local store unavailable: %w", err))
	}

	log.Info("hub sync started", zap.Int("categories", len(cats)))

	results := make(map[string]*SyncResult, len(cats))
	for _, c := range cats {
		res := e.syncCategory(ctx, log.With(zap.String("category", c.name)), c)
		results[c.name] = res
		e.publish(broadcast.SyncEvent{
			Type:     broadcast.EventSyncCategory,
			RunID:    runID,
			Category: c.name,
			Synced:   res.Synced,
			Errors:   res.Errors,
			Success:  len(res.Errors) == 0,
			At:       e.now().UTC(),
		})
	}

	resp = &SyncResponse{
		Success: true,
		RunID:   runID,
		Results: results,
	}
	resp.Message = fmt.Sprintf("Synced %d records from Hub", resp.Total())

	log.Info("hub sync finished",
		zap.Int("synced", resp.Total()),
		zap.Duration("elapsed", e.now().Sub(started)),
	)
	e.publish(broadcast.SyncEvent{
		Type:    broadcast.EventSyncCompleted,
		RunID:   runID,
		Synced:  resp.Total(),
		Success: true,
		At:      e.now().UTC(),
	})
	return resp
}

func (e *Engine) failed(runID string, err error) *SyncResponse {
	e.publish(broadcast.SyncEvent{
		Type:    broadcast.EventSyncCompleted,
		RunID:   runID,
		Errors:  []string{err.Error()},
		Success: false,
		At:      e.now().UTC(),
	})
	return &SyncResponse{Success: false, RunID: runID, Error: err.Error()}
}

func (e *Engine) publish(ev broadcast.SyncEvent) {
	if e.publisher != nil {
		e.publisher.BroadcastJSON(ev)
	}
}

func (e *Engine) syncCategory(ctx context.Context, log *zap.Logger, c category) *SyncResult {
	res := newResult()

	records, errMsg := e.fetchRecords(ctx, log, c)
	if errMsg != "" {
		res.fail("%s", errMsg)
		return res
	}

	for i, raw := range records {
		var err error
		label := recordLabel(raw, i)
		if c.term == "" {
			label, err = e.upsertSubtype(ctx, log, raw, label)
		} else {
			label, err = e.upsertTerm(ctx, raw, c, label)
		}
		if err != nil {
			log.Warn("record not synced", zap.String("record", label), zap.Error(err))
			res.fail("%s: %v", label, err)
			continue
		}
		res.Synced++
	}

	log.Info("category synced",
		zap.Int("records", len(records)),
		zap.Int("synced", res.Synced),
		zap.Int("errors", len(res.Errors)),
	)
	return res
}

// fetchRecords tries each path of c until one yields a recognizable payload.
// The returned message describes the last failure when none did.
func (e *Engine) fetchRecords(ctx context.Context, log *zap.Logger, c category) ([]map[string]any, string) {
	var errMsg string
	for _, path := range c.paths {
		payload, err := e.fetcher.Fetch(ctx, path)
		if err != nil {
			log.Warn("hub fetch failed", zap.String("path", path), zap.Error(err))
			errMsg = fmt.Sprintf("Failed to fetch %s from Hub: %v", c.name, err)
			continue
		}
		records, ok := Detect(payload, c.shape())
		if !ok {
			log.Warn("unrecognized hub payload", zap.String("path", path))
			errMsg = fmt.Sprintf("Unrecognized %s payload from Hub (%s)", c.name, path)
			continue
		}
		log.Debug("hub payload detected", zap.String("path", path), zap.Int("records", len(records)))
		return records, ""
	}
	return nil, errMsg
}

func (e *Engine) upsertSubtype(ctx context.Context, log *zap.Logger, raw map[string]any, label string) (string, error) {
	up, from, err := NormalizeSubtype(raw)
	if err != nil {
		return label, err
	}
	if from == taxonomy.FromDefault {
		log.Warn("season could not be inferred, using default",
			zap.String("slug", up.Slug),
			zap.String("season", string(taxonomy.DefaultSeason)),
		)
	}
	return up.Slug, e.store.UpsertSubtype(ctx, up)
}

func (e *Engine) upsertTerm(ctx context.Context, raw map[string]any, c category, label string) (string, error) {
	up, err := NormalizeTerm(raw, c.term)
	if err != nil {
		return label, err
	}
	return up.Term, e.store.UpsertTerm(ctx, up)
}
