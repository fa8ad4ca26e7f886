// Package convert provides safe type conversion utilities.
package convert

import (
	"fmt"
	"math"
)

// IntToInt32 safely converts an int to int32, returning an error if overflow occurs.
func IntToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// IntToInt32Safe safely converts an int to int32, panicking if overflow occurs.
// Use this only for values that are guaranteed by business logic to be within bounds.
func IntToInt32Safe(v int) int32 {
	if v > math.MaxInt32 || v < math.MinInt32 {
		panic(fmt.Sprintf("integer overflow: %d cannot be converted to int32", v))
	}
	return int32(v)
}

// IntToInt32Clamped converts an int to int32, clamping to min/max bounds if overflow.
// Use this when truncation is acceptable behavior (e.g., metrics, counters).
func IntToInt32Clamped(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}
