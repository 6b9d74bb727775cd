// AngelaMos | 2026
// patch.go

package core

import (
	"fmt"
	"strings"
)

// Change is one column assignment of a partial update.
type Change struct {
	Column string
	Value  any
}

func Columns(changes []Change) []string {
	cols := make([]string, 0, len(changes))
	for _, c := range changes {
		cols = append(cols, c.Column)
	}
	return cols
}

// BuildUpdate renders "UPDATE table SET ... WHERE id = $1" for the given
// changes, refusing columns outside allowed. The id is the first argument.
func BuildUpdate(
	table string,
	id int64,
	changes []Change,
	allowed map[string]bool,
) (string, []any, error) {
	if len(changes) == 0 {
		return "", nil, fmt.Errorf("update %s: %w", table, ErrEmptyPatch)
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	args = append(args, id)

	for i, c := range changes {
		if !allowed[c.Column] {
			return "", nil, fmt.Errorf("update %s: unknown column %q", table, c.Column)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Column, i+2))
		args = append(args, c.Value)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $1",
		table,
		strings.Join(sets, ", "),
	)
	return query, args, nil
}
