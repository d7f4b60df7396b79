// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package uniform

// Table maps uniform names to values. One table is shared by reference
// across every pass of a pipeline: the frame driver writes it between pass
// executions and passes read it during their own execution. It is never
// mutated concurrently, so Table carries no locking.
type Table struct {
	values map[string]Value
}

// NewTable creates an empty uniform table.
func NewTable() *Table {
	return &Table{values: make(map[string]Value)}
}

// Set installs or replaces the value bound to name. Replacing a value with
// one of a different tag is allowed at the table level; programs whose
// binding tables declared the old tag must be rebuilt before they see the
// new one (see render.ValidateBindings).
func (t *Table) Set(name string, v Value) {
	t.values[name] = v
}

// Get returns the value bound to name.
func (t *Table) Get(name string) (Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Delete removes the binding for name. Deleting an absent name is a no-op.
func (t *Table) Delete(name string) {
	delete(t.values, name)
}

// Len returns the number of bound names.
func (t *Table) Len() int { return len(t.values) }

// Names returns all bound names in unspecified order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.values))
	for name := range t.values {
		names = append(names, name)
	}
	return names
}

// Texture returns the texture bound under name, or nil if the name is
// unbound or bound to a non-texture value.
func (t *Table) Texture(name string) Texture {
	v, ok := t.values[name]
	if !ok || v.Type() != TypeTexture {
		return nil
	}
	return v.Texture()
}
