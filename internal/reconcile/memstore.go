package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"colortrainer/internal/taxonomy"
	"colortrainer/pkg/models"
)

// MemoryStore is an in-process Store with the same merge semantics as the
// SQL repositories. It backs dry runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	subtypes map[string]models.Subtype
	terms    map[termKey]models.VocabularyTerm
	pingErr  error
	now      func() time.Time
}

type termKey struct {
	category models.TermCategory
	term     string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subtypes: make(map[string]models.Subtype),
		terms:    make(map[termKey]models.VocabularyTerm),
		now:      time.Now,
	}
}

// FailPing makes subsequent Ping calls return err. Pass nil to recover.
func (s *MemoryStore) FailPing(err error) {
	s.mu.Lock()
	s.pingErr = err
	s.mu.Unlock()
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}

func (s *MemoryStore) UpsertSubtype(ctx context.Context, u taxonomy.SubtypeUpsert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	st, ok := s.subtypes[u.Slug]
	if !ok {
		st = models.Subtype{
			ID:        uuid.NewString(),
			Slug:      u.Slug,
			Name:      u.InsertName(),
			CreatedAt: now,
		}
	}
	st = taxonomy.ApplySubtype(st, u.Patch)
	st.UpdatedAt = now
	s.subtypes[u.Slug] = st
	return nil
}

func (s *MemoryStore) UpsertTerm(ctx context.Context, u taxonomy.TermUpsert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	key := termKey{u.Category, u.Term}
	t, ok := s.terms[key]
	if !ok {
		t = models.VocabularyTerm{
			ID:        uuid.NewString(),
			Term:      u.Term,
			Category:  u.Category,
			Name:      u.InsertName(),
			CreatedAt: now,
		}
	}
	t = taxonomy.ApplyTerm(t, u.Patch)
	t.UpdatedAt = now
	s.terms[key] = t
	return nil
}

// Subtype returns a copy of the stored subtype.
func (s *MemoryStore) Subtype(slug string) (models.Subtype, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.subtypes[slug]
	return st, ok
}

// Put seeds a subtype as if it had been written earlier.
func (s *MemoryStore) Put(st models.Subtype) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	s.subtypes[st.Slug] = st
}

func (s *MemoryStore) Term(category models.TermCategory, term string) (models.VocabularyTerm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[termKey{category, term}]
	return t, ok
}

// Subtypes lists stored subtypes ordered by slug.
func (s *MemoryStore) Subtypes() []models.Subtype {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Subtype, 0, len(s.subtypes))
	for _, st := range s.subtypes {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Terms lists the stored terms of one category ordered by term.
func (s *MemoryStore) Terms(category models.TermCategory) []models.VocabularyTerm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.VocabularyTerm
	for k, t := range s.terms {
		if k.category == category {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}
