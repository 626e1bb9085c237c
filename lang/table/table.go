// Package table implements an open-addressed, linear-probing hash table:
// globals and the VM's string-intern set are both one of these.
//
// A generic map can't stand in here: callers need exact control over the
// probe sequence (tombstones terminate lookup-insertion but not
// lookup-search, load factor 0.75, capacity doubling) plus a second probe,
// FindString, that isn't expressible through a map's Get/Set surface at all.
package table

import "github.com/mna/glox/lang/value"

const maxLoad = 0.75

// entry is one slot: an empty slot has Key == nil; a tombstone has Key ==
// nil and Value == value.True (a deleted slot that must still stop a
// lookup-insertion probe but not a lookup-search one).
type entry struct {
	Key   *value.String
	Value value.Value
}

// Table is an open-addressed hash map keyed by interned *value.String
// pointers (compared by identity, since all Strings are interned) and
// valued by value.Value.
type Table struct {
	count   int // occupied slots: live entries plus tombstones
	entries []entry
}

// Keys returns the interned string keys of all live entries, in unspecified
// table order.
func (t *Table) Keys() []*value.String {
	keys := make([]*value.String, 0, t.count)
	for i := range t.entries {
		if t.entries[i].Key != nil {
			keys = append(keys, t.entries[i].Key)
		}
	}
	return keys
}

// Count returns the number of live (non-tombstone) entries.
func (t *Table) Count() int {
	live := 0
	for i := range t.entries {
		if t.entries[i].Key != nil {
			live++
		}
	}
	return live
}

func (t *Table) findEntry(entries []entry, key *value.String) *entry {
	capacity := uint32(len(entries))
	index := key.Hash % capacity
	var tombstone *entry
	for {
		e := &entries[index]
		switch {
		case e.Key == nil:
			if e.Value == nil {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		case e.Key == key:
			return e
		}
		index = (index + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]entry, capacity)

	t.count = 0
	old := t.entries
	for i := range old {
		if old[i].Key == nil {
			continue
		}
		dest := t.findEntry(entries, old[i].Key)
		dest.Key = old[i].Key
		dest.Value = old[i].Value
		t.count++
	}
	t.entries = entries
}

// Get returns the value stored under key, and whether it was present.
func (t *Table) Get(key *value.String) (value.Value, bool) {
	if t.count == 0 {
		return nil, false
	}
	e := t.findEntry(t.entries, key)
	if e.Key == nil {
		return nil, false
	}
	return e.Value, true
}

// Set stores value under key, growing the table first if that would push
// the load factor past 0.75. It returns true if key was not already present.
func (t *Table) Set(key *value.String, v value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		capacity := growCapacity(len(t.entries))
		t.adjustCapacity(capacity)
	}

	e := t.findEntry(t.entries, key)
	isNewKey := e.Key == nil
	if isNewKey && e.Value == nil {
		t.count++
	}
	e.Key = key
	e.Value = v
	return isNewKey
}

// Delete removes key, leaving a tombstone in its place so later lookup
// probes that passed through this slot still find keys beyond it.
func (t *Table) Delete(key *value.String) bool {
	if t.count == 0 {
		return false
	}
	e := t.findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = value.True
	return true
}

// FindString probes for an existing interned string with the given content
// without needing a *value.String key to compare by identity. This is what
// makes string interning sound: the VM calls it before allocating a new
// String object, so that two equal string literals always resolve to the
// same pointer.
func (t *Table) FindString(chars string, hash uint32) *value.String {
	if t.count == 0 || len(t.entries) == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	index := hash % capacity
	for {
		e := &t.entries[index]
		switch {
		case e.Key == nil:
			if e.Value == nil {
				return nil
			}
		case e.Key.Hash == hash && e.Key.Chars == chars:
			return e.Key
		}
		index = (index + 1) % capacity
	}
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
