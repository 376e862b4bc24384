package effects

import (
	"sort"
)

// List holds the live effects of one entity, sorted by descending priority
type List struct {
	items []*Instance
}

// NewList creates an empty effect list
func NewList() *List {
	return &List{}
}

// Insert adds inst and re-sorts. Equal priorities keep insertion order.
func (l *List) Insert(inst *Instance) {
	l.items = append(l.items, inst)
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Priority() > l.items[j].Priority()
	})
}

// Remove drops inst from the list and reports whether it was present
func (l *List) Remove(inst *Instance) bool {
	for i, item := range l.items {
		if item == inst {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether inst is live in the list
func (l *List) Contains(inst *Instance) bool {
	for _, item := range l.items {
		if item == inst {
			return true
		}
	}
	return false
}

// Find returns the live instance with the given resolved name
func (l *List) Find(name string) *Instance {
	for _, item := range l.items {
		if item.Name() == name {
			return item
		}
	}
	return nil
}

// Has matches either a resolved name or a definition name, so generic
// effects can be tested for without knowing the spell that applied them.
func (l *List) Has(name string) bool {
	for _, item := range l.items {
		if item.Name() == name || item.Definition.Name == name {
			return true
		}
	}
	return false
}

// All returns a copy of the instances in priority order
func (l *List) All() []*Instance {
	out := make([]*Instance, len(l.items))
	copy(out, l.items)
	return out
}

// Names returns the resolved names in priority order
func (l *List) Names() []string {
	names := make([]string, len(l.items))
	for i, item := range l.items {
		names[i] = item.Name()
	}
	return names
}

// Len returns the number of live instances
func (l *List) Len() int {
	return len(l.items)
}

// Clear removes every instance without running any hook
func (l *List) Clear() {
	l.items = nil
}
