package reconcile

import (
	"context"

	"colortrainer/internal/subtype"
	"colortrainer/internal/taxonomy"
	"colortrainer/internal/vocabulary"
)

// SQLStore writes to the SQLite repositories. Both repositories share one
// database handle, so Ping checks it once.
type SQLStore struct {
	Subtypes *subtype.Repo
	Terms    *vocabulary.Repo
}

func (s SQLStore) Ping(ctx context.Context) error {
	return s.Subtypes.Ping(ctx)
}

func (s SQLStore) UpsertSubtype(ctx context.Context, u taxonomy.SubtypeUpsert) error {
	return s.Subtypes.UpsertSubtype(ctx, u)
}

func (s SQLStore) UpsertTerm(ctx context.Context, u taxonomy.TermUpsert) error {
	return s.Terms.UpsertTerm(ctx, u)
}
