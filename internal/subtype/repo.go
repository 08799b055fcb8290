// Package subtype stores taxonomy subtypes in SQLite and serves them over HTTP.
package subtype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"colortrainer/internal/taxonomy"
	"colortrainer/pkg/database"
	"colortrainer/pkg/models"
)

var ErrDuplicate = errors.New("subtype already exists")

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string   // keyword search in name/slug/description
	Season string   // canonical season
	Colors []string // any-match against key_colors
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// columns the upsert may write, taken from the merge policy.
var writable = func() map[string]bool {
	m := make(map[string]bool, len(taxonomy.SubtypeFields))
	for _, r := range taxonomy.SubtypeFields {
		m[r.Column] = true
	}
	return m
}()

func (r *Repo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// UpsertSubtype inserts the subtype or updates only the columns carried by
// the patch. Stored values of other columns are left untouched.
func (r *Repo) UpsertSubtype(ctx context.Context, u taxonomy.SubtypeUpsert) error {
	if strings.TrimSpace(u.Slug) == "" {
		return fmt.Errorf("upsert subtype: empty slug")
	}

	insert := []string{"id", "slug"}
	args := []any{uuid.NewString(), u.Slug}
	if _, ok := u.Patch.Get(taxonomy.ColName); !ok {
		insert = append(insert, taxonomy.ColName)
		args = append(args, u.InsertName())
	}

	update := make([]string, 0, len(u.Patch))
	for _, f := range u.Patch {
		if !writable[f.Column] {
			return fmt.Errorf("upsert subtype %s: column %q not allowed", u.Slug, f.Column)
		}
		v, err := database.EncodeValue(f.Value)
		if err != nil {
			return fmt.Errorf("upsert subtype %s: %s: %w", u.Slug, f.Column, err)
		}
		insert = append(insert, f.Column)
		update = append(update, f.Column)
		args = append(args, v)
	}

	query, err := database.Upsert{
		Table:    "subtypes",
		Conflict: []string{"slug"},
		Insert:   insert,
		Update:   update,
		Touch:    "updated_at",
	}.SQL()
	if err != nil {
		return err
	}

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert subtype %s: %w", u.Slug, err)
	}
	return nil
}

// Create inserts a new subtype and fails with ErrDuplicate if the slug is taken.
func (r *Repo) Create(ctx context.Context, st models.Subtype) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}

	cols := []string{"id", "slug", "name", "season", "description", "palette_effect"}
	args := []any{st.ID, st.Slug, st.Name, st.Season, st.Description, st.PaletteEffect}
	for _, s := range taxonomy.SubtypeSets(&st) {
		v, err := database.EncodeValue(*s.Ptr)
		if err != nil {
			return fmt.Errorf("create subtype %s: %s: %w", st.Slug, s.Column, err)
		}
		cols = append(cols, s.Column)
		args = append(args, v)
	}

	query := fmt.Sprintf("INSERT INTO subtypes (%s) VALUES (%s)",
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicate
		}
		return fmt.Errorf("create subtype %s: %w", st.Slug, err)
	}
	return nil
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*models.Subtype, error) {
	row := r.DB.QueryRowContext(ctx, selectSQL()+" WHERE slug = ?", slug)

	st, err := scanSubtype(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getBySlug: %w", err)
	}
	return st, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Subtype, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Subtype, 0)
	for rows.Next() {
		st, err := scanSubtype(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func selectSQL() string {
	cols := []string{"id", "slug", "name", "season", "description", "palette_effect"}
	for _, s := range taxonomy.SubtypeSets(&models.Subtype{}) {
		cols = append(cols, s.Column)
	}
	cols = append(cols, "created_at", "updated_at")
	return "SELECT " + strings.Join(cols, ", ") + " FROM subtypes"
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubtype(s scanner) (*models.Subtype, error) {
	var st models.Subtype
	sets := taxonomy.SubtypeSets(&st)
	raw := make([]string, len(sets))

	dest := []any{&st.ID, &st.Slug, &st.Name, &st.Season, &st.Description, &st.PaletteEffect}
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	dest = append(dest, &st.CreatedAt, &st.UpdatedAt)

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	for i, set := range sets {
		*set.Ptr = database.DecodeStrings(raw[i])
	}
	return &st, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
// The color filter is any-match via LIKE over the stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := selectSQL()
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM subtypes`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "(LOWER(name) LIKE ? OR slug LIKE ? OR LOWER(description) LIKE ?)")
		kw = "%" + strings.ToLower(kw) + "%"
		args = append(args, kw, kw, kw)
	}

	if s := strings.TrimSpace(q.Season); s != "" {
		where = append(where, "season = ?")
		args = append(args, strings.ToLower(s))
	}

	if len(q.Colors) > 0 {
		var colorOr []string
		for _, c := range q.Colors {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			colorOr = append(colorOr, "LOWER(key_colors) LIKE ?")
			args = append(args, `%`+strings.ToLower(c)+`%`)
		}
		if len(colorOr) > 0 {
			where = append(where, "("+strings.Join(colorOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY season ASC, name ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
