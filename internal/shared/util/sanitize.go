package util

import (
	"errors"
	"strings"
)

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName validates a client-supplied file name before it is used
// to resolve a path under the output directory. Generated file names never
// contain separators or traversal patterns, so anything carrying them is
// rejected outright instead of being rewritten.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || s == "." || strings.Contains(s, "..") {
		return "", errInvalidFileName
	}
	if strings.ContainsAny(s, "/\\") {
		return "", errInvalidFileName
	}
	return s, nil
}
