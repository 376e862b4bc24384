package stats

type namedFactor struct {
	key    string
	factor float64
}

// Modifiers holds named multiplicative modifiers per stat kind.
// The first writer of a key wins until it is removed.
type Modifiers struct {
	byKind map[Kind][]namedFactor
}

// NewModifiers creates an empty modifier set
func NewModifiers() *Modifiers {
	return &Modifiers{byKind: make(map[Kind][]namedFactor)}
}

// Add registers factor under key. It is a no-op returning false if key is already present.
func (m *Modifiers) Add(kind Kind, key string, factor float64) bool {
	for _, nf := range m.byKind[kind] {
		if nf.key == key {
			return false
		}
	}
	m.byKind[kind] = append(m.byKind[kind], namedFactor{key: key, factor: factor})
	return true
}

// Remove deletes key, reporting whether it was present
func (m *Modifiers) Remove(kind Kind, key string) bool {
	list := m.byKind[kind]
	for i, nf := range list {
		if nf.key != key {
			continue
		}
		m.byKind[kind] = append(list[:i:i], list[i+1:]...)
		return true
	}
	return false
}

// Has reports whether key is registered for kind
func (m *Modifiers) Has(kind Kind, key string) bool {
	for _, nf := range m.byKind[kind] {
		if nf.key == key {
			return true
		}
	}
	return false
}

// Product multiplies every factor registered for kind, in insertion order
func (m *Modifiers) Product(kind Kind) float64 {
	product := 1.0
	for _, nf := range m.byKind[kind] {
		product *= nf.factor
	}
	return product
}

// Keys returns the keys registered for kind in insertion order
func (m *Modifiers) Keys(kind Kind) []string {
	keys := make([]string, 0, len(m.byKind[kind]))
	for _, nf := range m.byKind[kind] {
		keys = append(keys, nf.key)
	}
	return keys
}

// Clear removes every modifier
func (m *Modifiers) Clear() {
	m.byKind = make(map[Kind][]namedFactor)
}
