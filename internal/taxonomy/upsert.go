package taxonomy

import "colortrainer/pkg/models"

// SubtypeUpsert is a normalized subtype ready for a selective upsert keyed by Slug.
type SubtypeUpsert struct {
	Slug  string
	Patch Patch
}

// InsertName is the name used when the row does not exist yet. Updates only
// touch the name when the patch carries one.
func (u SubtypeUpsert) InsertName() string {
	if n := u.Patch.String(ColName); n != "" {
		return n
	}
	return DisplayName(u.Slug)
}

// TermUpsert is a normalized vocabulary term keyed by (Term, Category).
type TermUpsert struct {
	Term     string
	Category models.TermCategory
	Patch    Patch
}

func (u TermUpsert) InsertName() string {
	if n := u.Patch.String(ColName); n != "" {
		return n
	}
	return DisplayName(u.Term)
}
