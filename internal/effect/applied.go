package effect

import "math"

// Applied is one effect currently applied to an entity.
type Applied struct {
	Kind     Kind
	Value    any
	Instance *Instance
}

// AppliedList is the effects applied to one entity, in activation order.
type AppliedList []Applied

// Any reports whether an effect of kind is applied.
func (l AppliedList) Any(kind Kind) bool {
	for _, a := range l {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// MostRecent returns the value of the last activated effect of kind.
func (l AppliedList) MostRecent(kind Kind) (any, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Kind == kind {
			return l[i].Value, true
		}
	}
	return nil, false
}

// MostRecentInt is MostRecent for numeric values.
func (l AppliedList) MostRecentInt(kind Kind) (int, bool) {
	v, ok := l.MostRecent(kind)
	if !ok {
		return 0, false
	}
	return Int(v), true
}

// Values returns the values of every effect of kind in activation order.
func (l AppliedList) Values(kind Kind) []any {
	var out []any
	for _, a := range l {
		if a.Kind == kind {
			out = append(out, a.Value)
		}
	}
	return out
}

// Sum adds up the numeric values of every effect of kind.
func (l AppliedList) Sum(kind Kind) int {
	total := 0
	for _, a := range l {
		if a.Kind == kind {
			total += Int(a.Value)
		}
	}
	return total
}

// Multipliers returns the numeric values of every effect of kind as
// float64, in activation order.
func (l AppliedList) Multipliers(kind Kind) []float64 {
	var out []float64
	for _, a := range l {
		if a.Kind == kind {
			out = append(out, Float(a.Value))
		}
	}
	return out
}

// Int converts a numeric effect value to int, truncating fractions.
// Non-numeric values count as 0.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case float32:
		return int(math.Trunc(float64(n)))
	case float64:
		return int(math.Trunc(n))
	}
	return 0
}

// Float converts a numeric effect value to float64. Non-numeric values
// count as 0.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	}
	return float64(Int(v))
}
