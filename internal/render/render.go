// Package render holds the pieces shared by the document builders: file
// naming and the write-then-publish discipline for finished binaries.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// ErrBuildFailed marks a rendering or I/O failure while producing a document.
var ErrBuildFailed = fmt.Errorf("failed to build document")

// Disallowed filename characters become a single underscore each. Hangul is
// kept alongside ASCII letters and digits; everything else is replaced.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9가-힣]`)

const timestampLayout = "20060102_150405"

// FileName derives the output file name for a document title:
// sanitized title, an underscore, a second-resolution timestamp, and the
// format extension (including the dot).
func FileName(title string, now time.Time, ext string) string {
	safe := unsafeChars.ReplaceAllString(title, "_")
	return safe + "_" + now.Format(timestampLayout) + ext
}

// WriteFile persists data under dir/name, creating dir if needed. The file
// only appears under its final name once fully written: data goes to a
// temporary sibling first and is renamed into place.
func WriteFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", ErrBuildFailed, err)
	}
	tmp, err := os.CreateTemp(dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	return nil
}
