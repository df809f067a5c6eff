package wsv

import (
	"fmt"
	"strings"
)

// idDelimiters separate the local part from the domain in account ids
// (name@domain) and asset ids (name#domain).
const idDelimiters = "@#"

// SplitID splits an identifier on the id delimiter set, dropping empty
// segments.
func SplitID(id string) []string {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return strings.ContainsRune(idDelimiters, r)
	})
	return parts
}

// ParseID splits an identifier into its local and domain parts. It rejects
// inputs that do not yield exactly two non-empty parts.
func ParseID(id string) (string, string, error) {
	parts := SplitID(id)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("id %q does not split into name and domain", id)
	}
	return parts[0], parts[1], nil
}
