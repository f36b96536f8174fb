package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Namespace prefixes every key built by BuildKey.
const Namespace = "jaspel:"

// BuildKey derives a deterministic key from the operation, the role or
// identifier, the filter map (order independent) and an optional user id.
// The result has the form jaspel:<op>:<sha256>, so all keys of one
// operation share the prefix jaspel:<op>:.
func BuildKey(operation, identifier string, filters map[string]string, userID string) string {
	names := make([]string, 0, len(filters))
	for name, value := range filters {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(operation)
	b.WriteByte('|')
	b.WriteString(identifier)
	b.WriteByte('|')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(filters[name])
	}
	b.WriteByte('|')
	b.WriteString(userID)

	sum := sha256.Sum256([]byte(b.String()))
	return OperationPrefix(operation) + hex.EncodeToString(sum[:])
}

// OperationPrefix is the invalidation prefix for one operation.
func OperationPrefix(operation string) string {
	return Namespace + operation + ":"
}
