// Package bytes provides utility functions for byte slices.
package bytes

import "bytes"

// Equal reports whether a and b contain the same bytes. A nil argument is
// equivalent to an empty slice.
func Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// Compare returns an integer comparing two byte slices lexicographically.
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// HasPrefix reports whether b begins with prefix.
func HasPrefix(b, prefix []byte) bool {
	return bytes.HasPrefix(b, prefix)
}

// Copy returns a new slice holding the same bytes as val.
func Copy(val []byte) []byte {
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied
}

// Join concatenates vals into a single new slice.
func Join(vals ...[]byte) []byte {
	size := 0
	for _, val := range vals {
		size += len(val)
	}
	return JoinSize(size, vals...)
}

// JoinSize concatenates vals into a new slice of the given total size.
func JoinSize(size int, vals ...[]byte) []byte {
	result := make([]byte, 0, size)
	for _, val := range vals {
		result = append(result, val...)
	}
	return result
}
