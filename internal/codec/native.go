package codec

// Materialize eagerly walks v and returns it as plain Go values: float64,
// string, []any, or map[string]any. It is the convenient, non-lazy path
// used wherever the engine needs a value it can hold onto (the state
// document, a platform's stored properties) rather than stream once.
func Materialize(v Value) (any, error) {
	switch t := v.(type) {
	case Number:
		return float64(t), nil
	case String:
		return string(t), nil
	case *List:
		var out []any
		err := t.Elements(func(el Value) (bool, error) {
			mv, err := Materialize(el)
			if err != nil {
				return false, err
			}
			out = append(out, mv)
			return true, nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case *Map:
		out := make(map[string]any)
		err := t.Entries(func(key string, el Value) (bool, error) {
			mv, err := Materialize(el)
			if err != nil {
				return false, err
			}
			out[key] = mv
			return true, nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, nil
	}
}

// DecodeAll reads a single root value from r and materializes it.
func DecodeAll(r *Reader) (any, error) {
	v, err := r.ReadValue()
	if err != nil {
		return nil, err
	}
	return Materialize(v)
}
