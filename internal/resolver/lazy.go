package resolver

// LazyMap is an O(1) read-only proxy over a decoded map whose string
// leaves are resolved against vars on access and whose nested
// maps/lists are wrapped the same way.
type LazyMap struct {
	data map[string]any
	vars map[string]any
}

// WrapMap returns a lazy view over data using vars as the resolution
// environment for any string leaf it contains.
func WrapMap(data map[string]any, vars map[string]any) *LazyMap {
	return &LazyMap{data: data, vars: vars}
}

// Get resolves and returns the value bound to key.
func (m *LazyMap) Get(key string) (any, bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	v, err := wrapValue(raw, m.vars)
	return v, true, err
}

// Keys returns the map's keys in no particular order.
func (m *LazyMap) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries.
func (m *LazyMap) Len() int { return len(m.data) }

// LazyList is an O(1) read-only proxy over a decoded list whose string
// elements are resolved against vars on access.
type LazyList struct {
	data []any
	vars map[string]any
}

// WrapList returns a lazy view over data using vars as the resolution
// environment for any string element it contains.
func WrapList(data []any, vars map[string]any) *LazyList {
	return &LazyList{data: data, vars: vars}
}

// Len returns the number of elements.
func (l *LazyList) Len() int { return len(l.data) }

// Get resolves and returns the element at index i.
func (l *LazyList) Get(i int) (any, error) {
	if i < 0 || i >= len(l.data) {
		return nil, ErrIndexOutOfRange
	}
	return wrapValue(l.data[i], l.vars)
}

func wrapValue(v any, vars map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		return ResolveString(t, vars)
	case map[string]any:
		return WrapMap(t, vars), nil
	case []any:
		return WrapList(t, vars), nil
	default:
		return v, nil
	}
}
