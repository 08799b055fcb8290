package database

import (
	"fmt"
	"strings"
)

// Upsert describes a single-row INSERT ... ON CONFLICT DO UPDATE statement.
// Column names are interpolated, so callers must only pass identifiers from
// a fixed allow-list.
type Upsert struct {
	Table string
	// Conflict lists the columns of the unique constraint.
	Conflict []string
	// Insert lists every column written when the row is new.
	Insert []string
	// Update lists the columns overwritten when the row already exists.
	Update []string
	// Touch is set to CURRENT_TIMESTAMP on update, if non-empty.
	Touch string
}

// SQL renders the statement with one positional placeholder per Insert column.
func (u Upsert) SQL() (string, error) {
	if u.Table == "" || len(u.Conflict) == 0 || len(u.Insert) == 0 {
		return "", fmt.Errorf("upsert: table, conflict and insert columns are required")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(u.Insert)), ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s)\nVALUES (%s)\nON CONFLICT(%s) ",
		u.Table, strings.Join(u.Insert, ", "), placeholders, strings.Join(u.Conflict, ", "))

	sets := make([]string, 0, len(u.Update)+1)
	for _, c := range u.Update {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	if u.Touch != "" {
		sets = append(sets, u.Touch+" = CURRENT_TIMESTAMP")
	}
	if len(sets) == 0 {
		b.WriteString("DO NOTHING")
		return b.String(), nil
	}
	b.WriteString("DO UPDATE SET\n  ")
	b.WriteString(strings.Join(sets, ",\n  "))
	return b.String(), nil
}
