// Package uploadstore stores listing images uploaded by clients.
package uploadstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotFound is returned when a key names no stored upload.
var ErrNotFound = errors.New("upload not found")

// maxStemLen caps the part of the client file name kept before the timestamp.
const maxStemLen = 30

type UploadStore interface {
	// Save writes r under a name derived from name and returns the key it
	// was stored under.
	Save(ctx context.Context, name string, r io.Reader) (key string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// SafeName turns a client supplied file name into a storage name: only the
// final path element is kept, its stem is cut to 30 characters with spaces
// replaced by underscores, and a UTC timestamp with microseconds is appended
// before the lower-cased extension.
func SafeName(original string, now time.Time) string {
	base := original
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if base == "." || base == ".." {
		base = ""
	}

	stem, ext := splitExt(base)
	stem = strings.ReplaceAll(truncate(stem, maxStemLen), " ", "_")

	now = now.UTC()
	ts := fmt.Sprintf("%s%06d", now.Format("20060102150405"), now.Nanosecond()/1000)
	return stem + "_" + ts + strings.ToLower(ext)
}

// splitExt splits at the last dot. Leading dots belong to the stem, so
// ".env" has no extension.
func splitExt(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i < 0 || strings.TrimLeft(name[:i], ".") == "" {
		return name, ""
	}
	return name[:i], name[i:]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
