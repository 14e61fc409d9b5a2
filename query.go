package depot

import (
	"slices"
)

// Query selects archetypes by the components they must have and must not have.
// Optional components do not affect matching; they only add handles when present.
type Query struct {
	required []Access
	excluded []ComponentID
	optional []Access

	requiredKey ArchetypeKey
	excludedKey ArchetypeKey
}

func newQuery() *Query {
	return &Query{}
}

// Require adds a component every matching archetype must contain.
func (q *Query) Require(c Component, mode AccessMode) *Query {
	id := c.ComponentID()
	q.required = upsertAccess(q.required, Access{ID: id, ReadOnly: bool(mode)})
	q.optional = slices.DeleteFunc(q.optional, func(a Access) bool { return a.ID == id })
	q.requiredKey = q.requiredKey.With(id)
	return q
}

// Exclude adds components no matching archetype may contain.
func (q *Query) Exclude(cs ...Component) *Query {
	for _, c := range cs {
		id := c.ComponentID()
		if !slices.Contains(q.excluded, id) {
			q.excluded = append(q.excluded, id)
		}
		q.excludedKey = q.excludedKey.With(id)
	}
	return q
}

// Optional adds a component that is handed out when the archetype has it.
func (q *Query) Optional(c Component, mode AccessMode) *Query {
	id := c.ComponentID()
	if q.requiredKey.Has(id) {
		return q
	}
	q.optional = upsertAccess(q.optional, Access{ID: id, ReadOnly: bool(mode)})
	return q
}

func upsertAccess(accesses []Access, a Access) []Access {
	for i := range accesses {
		if accesses[i].ID == a.ID {
			accesses[i] = a
			return accesses
		}
	}
	return append(accesses, a)
}

func (q *Query) Required() []Access {
	return slices.Clone(q.required)
}

func (q *Query) Excluded() []ComponentID {
	return slices.Clone(q.excluded)
}

func (q *Query) Optionals() []Access {
	return slices.Clone(q.optional)
}

// Matches reports whether an archetype with the given key satisfies the query.
func (q *Query) Matches(key ArchetypeKey) bool {
	if len(q.required) > 0 && !key.ContainsAll(q.requiredKey) {
		return false
	}
	if len(q.excluded) > 0 && !key.ContainsNone(q.excludedKey) {
		return false
	}
	return true
}

// accesses lists the handles to build for an archetype, ordered by component id.
// Optional components missing from the archetype are skipped.
func (q *Query) accesses(key ArchetypeKey) []Access {
	out := make([]Access, 0, len(q.required)+len(q.optional))
	out = append(out, q.required...)
	for _, a := range q.optional {
		if key.Has(a.ID) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b Access) int { return int(a.ID) - int(b.ID) })
	return out
}
