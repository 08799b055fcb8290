// Package vocabulary stores the supplementary terms (colors, fabrics,
// artists, eras) that subtypes reference.
package vocabulary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"colortrainer/internal/taxonomy"
	"colortrainer/pkg/database"
	"colortrainer/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Category models.TermCategory
	Q        string
	Limit    int
	Offset   int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

var writable = func() map[string]bool {
	m := make(map[string]bool, len(taxonomy.TermFields))
	for _, r := range taxonomy.TermFields {
		m[r.Column] = true
	}
	return m
}()

const selectTerms = `
	SELECT id, term, category, name, hex_code, description, related_terms, created_at, updated_at
	FROM vocabulary_terms`

func (r *Repo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// UpsertTerm inserts the term or updates only the columns carried by the
// patch, keyed by (term, category).
func (r *Repo) UpsertTerm(ctx context.Context, u taxonomy.TermUpsert) error {
	if strings.TrimSpace(u.Term) == "" {
		return fmt.Errorf("upsert term: empty term")
	}
	if !u.Category.Valid() {
		return fmt.Errorf("upsert term %s: invalid category %q", u.Term, u.Category)
	}

	insert := []string{"id", "term", "category"}
	args := []any{uuid.NewString(), u.Term, string(u.Category)}
	if _, ok := u.Patch.Get(taxonomy.ColName); !ok {
		insert = append(insert, taxonomy.ColName)
		args = append(args, u.InsertName())
	}

	update := make([]string, 0, len(u.Patch))
	for _, f := range u.Patch {
		if !writable[f.Column] {
			return fmt.Errorf("upsert term %s: column %q not allowed", u.Term, f.Column)
		}
		v, err := database.EncodeValue(f.Value)
		if err != nil {
			return fmt.Errorf("upsert term %s: %s: %w", u.Term, f.Column, err)
		}
		insert = append(insert, f.Column)
		update = append(update, f.Column)
		args = append(args, v)
	}

	query, err := database.Upsert{
		Table:    "vocabulary_terms",
		Conflict: []string{"term", "category"},
		Insert:   insert,
		Update:   update,
		Touch:    "updated_at",
	}.SQL()
	if err != nil {
		return err
	}

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert term %s/%s: %w", u.Category, u.Term, err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, category models.TermCategory, term string) (*models.VocabularyTerm, error) {
	row := r.DB.QueryRowContext(ctx, selectTerms+` WHERE category = ? AND term = ?`, string(category), term)

	t, err := scanTerm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan get term: %w", err)
	}
	return t, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.VocabularyTerm, int, error) {
	var where []string
	var args []any

	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(q.Category))
	}
	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "(term LIKE ? OR LOWER(name) LIKE ?)")
		kw = "%" + strings.ToLower(kw) + "%"
		args = append(args, kw, kw)
	}

	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM vocabulary_terms`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scan: %w", err)
	}

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx,
		selectTerms+filter+` ORDER BY category ASC, term ASC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.VocabularyTerm, 0)
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTerm(s scanner) (*models.VocabularyTerm, error) {
	var (
		t        models.VocabularyTerm
		category string
		related  string
	)
	if err := s.Scan(&t.ID, &t.Term, &category, &t.Name, &t.HexCode, &t.Description, &related, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Category = models.TermCategory(category)
	t.RelatedTerms = database.DecodeStrings(related)
	return &t, nil
}
