package model

import (
	"fmt"
	"sort"
)

// Item is one logical row of a list model. Values are addressed by role name
type Item struct {
	roles map[string]any
}

// NewItem creates an item from role values. The map is copied
func NewItem(roles map[string]any) Item {
	cp := make(map[string]any, len(roles))
	for k, v := range roles {
		cp[k] = v
	}
	return Item{roles: cp}
}

// Value returns the value for role, or nil if the item has no such role
func (i Item) Value(role string) any {
	if i.roles == nil {
		return nil
	}
	return i.roles[role]
}

// String returns the value for role formatted as a string, "" if missing
func (i Item) String(role string) string {
	v := i.Value(role)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// With returns a copy of the item with role set to v
func (i Item) With(role string, v any) Item {
	cp := NewItem(i.roles)
	cp.roles[role] = v
	return cp
}

// Roles returns the item's role names, sorted
func (i Item) Roles() []string {
	names := make([]string, 0, len(i.roles))
	for k := range i.roles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsZero is true for the item returned when an index is out of range
func (i Item) IsZero() bool {
	return i.roles == nil
}
