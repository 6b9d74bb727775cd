// AngelaMos | 2026
// entity.go

package department

import (
	"strings"
)

// Department is the organizational bucket that gates which commands a user
// may run. Raw names are resolved once, at the boundary, with Parse.
type Department int

const (
	Unknown Department = iota
	Gestion
	Commercial
	Support
)

var names = map[Department]string{
	Gestion:    "Gestion",
	Commercial: "Commercial",
	Support:    "Support",
}

// All lists the departments that must exist before users can be created.
func All() []Department {
	return []Department{Gestion, Commercial, Support}
}

func Parse(name string) Department {
	normalized := strings.TrimSpace(name)
	for d, n := range names {
		if strings.EqualFold(n, normalized) {
			return d
		}
	}
	return Unknown
}

func (d Department) String() string {
	if n, ok := names[d]; ok {
		return n
	}
	return "Unknown"
}

func (d Department) Valid() bool {
	_, ok := names[d]
	return ok
}

// In reports membership; an empty set never matches.
func (d Department) In(set []Department) bool {
	for _, candidate := range set {
		if candidate == d {
			return true
		}
	}
	return false
}

// Record is the persisted reference row.
type Record struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func (r Record) Department() Department {
	return Parse(r.Name)
}
