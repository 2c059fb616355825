package internal

// Array is an indexed, growable sequence of variables. Entries hold
// references to their variables. Nil entries are allowed.
type Array struct {
	entries []Var
	flags   Flags
}

// NewArray creates an empty array.
func NewArray() *Array {
	return &Array{}
}

// Count returns the number of entries, including nil ones.
func (a *Array) Count() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Get returns the entry at index i, or nil if i is out of range.
func (a *Array) Get(i int) Var {
	if a == nil || i < 0 || i >= len(a.entries) {
		return nil
	}
	return a.entries[i]
}

// Put stores v at index i, growing the array with nil entries as needed and
// releasing the entry previously there. The array is marked modified.
func (a *Array) Put(v Var, i int) {
	if a.PutDirect(v, i) {
		a.flags |= FlagModified
	}
}

// PutDirect stores v at index i without marking the array modified. It
// reports whether the entry changed.
func (a *Array) PutDirect(v Var, i int) bool {
	if i < 0 {
		SetError(ErrBadIndex, "")
		return false
	}
	for len(a.entries) <= i {
		a.entries = append(a.entries, nil)
	}
	old := a.entries[i]
	if old == v {
		return false
	}
	if v != nil {
		v.base().AddRef()
	}
	a.entries[i] = v
	if old != nil {
		old.base().Release()
	}
	return true
}

// Insert stores v at index i, shifting later entries up.
func (a *Array) Insert(v Var, i int) {
	if i < 0 || i > len(a.entries) {
		i = len(a.entries)
	}
	if v != nil {
		v.base().AddRef()
	}
	a.entries = append(a.entries, nil)
	copy(a.entries[i+1:], a.entries[i:])
	a.entries[i] = v
	a.flags |= FlagModified
}

// Add appends v.
func (a *Array) Add(v Var) {
	a.Insert(v, len(a.entries))
}

// Remove releases the entry at index i and closes the gap.
func (a *Array) Remove(i int) {
	if i < 0 || i >= len(a.entries) {
		SetError(ErrBadIndex, "")
		return
	}
	old := a.entries[i]
	copy(a.entries[i:], a.entries[i+1:])
	a.entries[len(a.entries)-1] = nil
	a.entries = a.entries[:len(a.entries)-1]
	a.flags |= FlagModified
	if old != nil {
		old.base().Release()
	}
}

// IndexOf returns the index of the entry that is v, or -1.
func (a *Array) IndexOf(v Var) int {
	if a == nil || v == nil {
		return -1
	}
	for i, e := range a.entries {
		if e != nil && e.base() == v.base() {
			return i
		}
	}
	return -1
}

// Merge appends the non-nil entries of b, taking references to them. b is
// left unchanged.
func (a *Array) Merge(b *Array) {
	if b == nil || b == a {
		return
	}
	for _, v := range b.entries {
		if v != nil {
			a.Add(v)
		}
	}
}

// Clear releases every entry.
func (a *Array) Clear() {
	if a == nil {
		return
	}
	old := a.entries
	a.entries = nil
	for _, v := range old {
		if v != nil {
			v.base().Release()
		}
	}
}

// Flags returns the array's flags.
func (a *Array) Flags() Flags {
	return a.flags
}

// SetFlag sets flags on the array.
func (a *Array) SetFlag(f Flags) {
	a.flags |= f
}

// ResetFlag clears flags on the array.
func (a *Array) ResetFlag(f Flags) {
	a.flags &^= f
}

// IsSet reports whether all of f are set on the array.
func (a *Array) IsSet(f Flags) bool {
	return a.flags&f == f
}

// Find returns the first visible entry named name whose class matches c.
// ClassDontCare matches every class. When the array has ExtSearch set,
// member objects that also have ExtSearch set are searched as well, without
// their parent walk; an entry found that way is marked ExtFound.
func (a *Array) Find(name string, c Class) Var {
	if a == nil {
		return nil
	}
	folded := FoldName(name)
	return a.find(folded, hashFolded(folded), c)
}

func (a *Array) find(folded string, hash uint16, c Class) Var {
	ext := a.IsSet(FlagExtSearch)
	for _, v := range a.entries {
		if v == nil {
			continue
		}
		b := v.base()
		if !b.IsVisible() {
			continue
		}
		if (hash == 0 || b.hash == hash) && classMatches(b.class, c) && b.folded == folded {
			b.ResetFlag(FlagExtFound)
			return v
		}
		if ext && b.IsSet(FlagExtSearch) {
			o := v.asObject()
			if o == nil {
				continue
			}
			r := o.findNoGlobal(folded, hash, c)
			if r != nil {
				r.base().SetFlag(FlagExtFound)
				return r
			}
		}
	}
	return nil
}

func classMatches(have, want Class) bool {
	return want == ClassDontCare || have == want
}

// index returns the index of the first direct entry with the given folded
// name and class, or -1. Unlike Find, it ignores visibility and never
// searches member objects.
func (a *Array) index(folded string, hash uint16, c Class) int {
	for i, v := range a.entries {
		if v == nil {
			continue
		}
		b := v.base()
		if b.hash == hash && classMatches(b.class, c) && b.folded == folded {
			return i
		}
	}
	return -1
}
