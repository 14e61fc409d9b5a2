package depot

import "github.com/TheBitDrifter/mask"

// NewArchetypeKey builds the key for a set of component ids.
func NewArchetypeKey(ids ...ComponentID) ArchetypeKey {
	var key ArchetypeKey
	for _, id := range ids {
		key = key.With(id)
	}
	return key
}

// With returns a copy of the key that also contains id.
func (k ArchetypeKey) With(id ComponentID) ArchetypeKey {
	bits := k.bits
	bits.Mark(uint32(id))
	return ArchetypeKey{bits: bits}
}

// Without returns a copy of the key that no longer contains id.
func (k ArchetypeKey) Without(id ComponentID) ArchetypeKey {
	bits := k.bits
	bits.Unmark(uint32(id))
	return ArchetypeKey{bits: bits}
}

// Has reports whether id is part of the key.
func (k ArchetypeKey) Has(id ComponentID) bool {
	var probe mask.Mask
	probe.Mark(uint32(id))
	return k.bits.ContainsAll(probe)
}

// ContainsAll reports whether every component of other is part of k.
func (k ArchetypeKey) ContainsAll(other ArchetypeKey) bool {
	return k.bits.ContainsAll(other.bits)
}

// ContainsNone reports whether k shares no component with other.
func (k ArchetypeKey) ContainsNone(other ArchetypeKey) bool {
	return k.bits.ContainsNone(other.bits)
}
