// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package vartype provides value wrappers that remember whether a value was ever set.
package vartype

import (
	"fmt"
	"time"
)

type (
	// VarInt is a Variable holding an int, used for numeric report fields without a fallback value.
	VarInt = Variable[int]

	// VarTime is a Variable holding a point in time.
	VarTime = Variable[time.Time]
)

// Variable holds a value of type T and tracks whether it has been set.
type Variable[T any] struct {
	value T
	isset bool
}

// Value returns the stored value, which is the zero value of T when unset.
func (v Variable[T]) Value() T {
	return v.value
}

// Get returns the stored value and whether it is set.
func (v Variable[T]) Get() (T, bool) {
	return v.value, v.isset
}

// Set stores val and marks the Variable as set.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// String returns the formatted value, or an empty string when unset.
func (v Variable[T]) String() string {
	if !v.isset {
		return ""
	}
	return fmt.Sprint(v.value)
}
