package props

import (
	"fmt"
	"math"
	"strconv"
)

// Field registers an assignable field. field returns the address to write.
func Field[T, V any](name string, field func(T) *V) Property {
	return Property{
		Name: name,
		Mode: ModeField,
		set: func(target any, args []any) error {
			t, err := bind[T](name, target, args, 1, 1)
			if err != nil {
				return err
			}
			v, err := Convert[V](args[0])
			if err != nil {
				return fmt.Errorf("props: %s: %w", name, err)
			}
			*field(t) = v
			return nil
		},
	}
}

// Method registers a one-argument setter.
func Method[T, A any](name string, fn func(T, A) error) Property {
	return Property{
		Name: name,
		Mode: ModeMethod,
		set: func(target any, args []any) error {
			t, err := bind[T](name, target, args, 1, 1)
			if err != nil {
				return err
			}
			a, err := Convert[A](args[0])
			if err != nil {
				return fmt.Errorf("props: %s: %w", name, err)
			}
			return fn(t, a)
		},
	}
}

// Method2 registers a two-argument setter.
func Method2[T, A, B any](name string, fn func(T, A, B) error) Property {
	return Property{
		Name: name,
		Mode: ModeMethod,
		set: func(target any, args []any) error {
			t, err := bind[T](name, target, args, 2, 2)
			if err != nil {
				return err
			}
			a, err := Convert[A](args[0])
			if err != nil {
				return fmt.Errorf("props: %s: arg 0: %w", name, err)
			}
			b, err := Convert[B](args[1])
			if err != nil {
				return fmt.Errorf("props: %s: arg 1: %w", name, err)
			}
			return fn(t, a, b)
		},
	}
}

// Method3 registers a three-argument setter.
func Method3[T, A, B, C any](name string, fn func(T, A, B, C) error) Property {
	return Property{
		Name: name,
		Mode: ModeMethod,
		set: func(target any, args []any) error {
			t, err := bind[T](name, target, args, 3, 3)
			if err != nil {
				return err
			}
			a, err := Convert[A](args[0])
			if err != nil {
				return fmt.Errorf("props: %s: arg 0: %w", name, err)
			}
			b, err := Convert[B](args[1])
			if err != nil {
				return fmt.Errorf("props: %s: arg 1: %w", name, err)
			}
			c, err := Convert[C](args[2])
			if err != nil {
				return fmt.Errorf("props: %s: arg 2: %w", name, err)
			}
			return fn(t, a, b, c)
		},
	}
}

// Variadic registers a setter accepting between min and max arguments of
// the same type. max < 0 means unbounded.
func Variadic[T, A any](name string, min, max int, fn func(T, ...A) error) Property {
	return Property{
		Name: name,
		Mode: ModeMethod,
		set: func(target any, args []any) error {
			t, err := bind[T](name, target, args, min, max)
			if err != nil {
				return err
			}
			vals := make([]A, len(args))
			for i, arg := range args {
				v, err := Convert[A](arg)
				if err != nil {
					return fmt.Errorf("props: %s: arg %d: %w", name, i, err)
				}
				vals[i] = v
			}
			return fn(t, vals...)
		},
	}
}

func bind[T any](name string, target any, args []any, min, max int) (T, error) {
	t, ok := target.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("props: %s: %w: got %T", name, ErrTarget, target)
	}
	if len(args) < min || (max >= 0 && len(args) > max) {
		return t, fmt.Errorf("props: %s: %w: got %d", name, ErrArity, len(args))
	}
	return t, nil
}

// Convert converts a coerced value to V. Numbers convert between integer
// and float types when no precision is lost, scalars format into strings,
// and sequences convert element-wise into typed slices.
func Convert[V any](v any) (V, error) {
	var out V
	if direct, ok := v.(V); ok {
		return direct, nil
	}

	var ok bool
	switch p := any(&out).(type) {
	case *float64:
		*p, ok = toFloat(v)
	case *float32:
		var f float64
		f, ok = toFloat(v)
		*p = float32(f)
	case *int:
		*p, ok = toInt(v)
	case *int64:
		var n int
		n, ok = toInt(v)
		*p = int64(n)
	case *uint32:
		var n int
		n, ok = toInt(v)
		ok = ok && n >= 0 && n <= math.MaxUint32
		*p = uint32(n)
	case *bool:
		*p, ok = toBool(v)
	case *string:
		*p, ok = toString(v)
	case *[]float64:
		*p, ok = convertSlice[float64](v)
	case *[]int:
		*p, ok = convertSlice[int](v)
	case *[]string:
		*p, ok = convertSlice[string](v)
	}
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: cannot use %T as %T", ErrType, v, zero)
	}
	return out, nil
}

func convertSlice[E any](v any) ([]E, bool) {
	seq, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]E, len(seq))
	for i, item := range seq {
		e, err := Convert[E](item)
		if err != nil {
			return nil, false
		}
		out[i] = e
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case int:
		return b != 0, true
	}
	return false, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}
