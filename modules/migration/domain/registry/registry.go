// Package registry resolves legacy natural keys and record ids to the ids
// generated by the destination store during a migration run.
package registry

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

type Kind int

const (
	Accounts Kind = iota
	Users
	Projects
)

func (k Kind) String() string {
	switch k {
	case Accounts:
		return "accounts"
	case Users:
		return "users"
	case Projects:
		return "projects"
	default:
		return "unknown"
	}
}

// Registry holds one alias table per anchor kind. It lives for a single run
// and is not safe for concurrent writers.
type Registry struct {
	stores map[Kind]map[string]uuid.UUID
	fold   cases.Caser
}

func New() *Registry {
	return &Registry{
		stores: map[Kind]map[string]uuid.UUID{
			Accounts: {},
			Users:    {},
			Projects: {},
		},
		fold: cases.Fold(),
	}
}

func (r *Registry) key(alias string) string {
	return r.fold.String(strings.TrimSpace(alias))
}

// Put registers alias for id. Aliases are immutable once set: a second Put
// for the same alias keeps the first id and returns false.
func (r *Registry) Put(kind Kind, alias string, id uuid.UUID) bool {
	store, ok := r.stores[kind]
	if !ok {
		return false
	}
	k := r.key(alias)
	if k == "" {
		return false
	}
	if _, exists := store[k]; exists {
		return false
	}
	store[k] = id
	return true
}

// Register puts every non-blank alias and returns how many were new.
func (r *Registry) Register(kind Kind, id uuid.UUID, aliases ...string) int {
	n := 0
	for _, a := range aliases {
		if r.Put(kind, a, id) {
			n++
		}
	}
	return n
}

// Get never fails; unknown aliases report false and callers migrate with a
// null reference.
func (r *Registry) Get(kind Kind, alias string) (uuid.UUID, bool) {
	store, ok := r.stores[kind]
	if !ok {
		return uuid.Nil, false
	}
	k := r.key(alias)
	if k == "" {
		return uuid.Nil, false
	}
	id, ok := store[k]
	return id, ok
}

func (r *Registry) Len(kind Kind) int {
	return len(r.stores[kind])
}
