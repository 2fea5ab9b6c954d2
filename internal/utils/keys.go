package utils

import "strings"

// BaseName extracts the last "/" segment from an object key.
// Returns the input unchanged if no "/" is found.
func BaseName(key string) string {
	if parts := strings.Split(strings.TrimSuffix(key, "/"), "/"); len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return strings.TrimSuffix(key, "/")
}

// ParentPrefix returns the key's enclosing prefix including the trailing "/",
// or "" for a top-level key.
func ParentPrefix(key string) string {
	key = strings.TrimSuffix(key, "/")
	idx := strings.LastIndex(key, "/")
	if idx < 0 {
		return ""
	}
	return key[:idx+1]
}
