package vm

// indexGet implements IndexGet over Array/Vec/String, per spec.md §4.7:
// negative or out-of-range indices trap E-VM-INDEX-OOB.
func (v *VM) indexGet(target, idx Value) (Value, error) {
	i := idx.Int
	switch target.Kind {
	case KindArray:
		if i < 0 || i >= int64(len(target.Arr)) {
			return Value{}, v.trap(LabelIndexOOB, "array index %d out of bounds (len %d)", i, len(target.Arr))
		}
		return target.Arr[i], nil
	case KindVec:
		s := *target.Vec
		if i < 0 || i >= int64(len(s)) {
			return Value{}, v.trap(LabelIndexOOB, "vec index %d out of bounds (len %d)", i, len(s))
		}
		return s[i], nil
	case KindString:
		runes := []rune(target.Str)
		if i < 0 || i >= int64(len(runes)) {
			return Value{}, v.trap(LabelIndexOOB, "string index %d out of bounds (len %d)", i, len(runes))
		}
		return StringValue(string(runes[i])), nil
	default:
		return Value{}, v.trap(LabelType, "cannot index a value of this type")
	}
}

// indexSet implements IndexSet, valid only over Array (assignment target is
// a fresh copy, arrays being by-value) and Vec (shared handle, mutates in
// place — spec.md §5).
func (v *VM) indexSet(target, idx, val Value) error {
	i := idx.Int
	switch target.Kind {
	case KindArray:
		if i < 0 || i >= int64(len(target.Arr)) {
			return v.trap(LabelIndexOOB, "array index %d out of bounds (len %d)", i, len(target.Arr))
		}
		target.Arr[i] = val
		return nil
	case KindVec:
		s := *target.Vec
		if i < 0 || i >= int64(len(s)) {
			return v.trap(LabelIndexOOB, "vec index %d out of bounds (len %d)", i, len(s))
		}
		s[i] = val
		return nil
	default:
		return v.trap(LabelType, "cannot assign into a value of this type")
	}
}
