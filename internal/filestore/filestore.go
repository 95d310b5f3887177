// Package filestore keeps imported documents in an application-owned
// directory. Stored files are addressed by a URI relative to that directory.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const tmpPrefix = ".syndic-tmp-"

// FS stores files under a single root directory.
type FS struct {
	root string // absolute
}

// New returns an FS rooted at dir, creating the directory when needed.
func New(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("filestore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("filestore: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filestore: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute root directory.
func (f *FS) Root() string { return f.root }

// safePath resolves uri against the root and rejects anything that escapes it.
func (f *FS) safePath(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("filestore: empty uri")
	}
	cleaned := filepath.Clean(filepath.FromSlash(uri))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("filestore: absolute paths not allowed: %s", uri)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("filestore: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("filestore: path escapes root: %s", uri)
	}
	return abs, nil
}

// Save copies r into a new file named after name and returns its URI and
// size. The copy is atomic: tmp file, fsync, rename.
func (f *FS) Save(name string, r io.Reader) (string, int64, error) {
	uri := uuid.NewString() + "-" + Sanitize(name)

	tmp, err := os.CreateTemp(f.root, tmpPrefix+"*")
	if err != nil {
		return "", 0, fmt.Errorf("filestore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return "", 0, fmt.Errorf("filestore: copy: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", 0, fmt.Errorf("filestore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("filestore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(f.root, uri)); err != nil {
		return "", 0, fmt.Errorf("filestore: rename: %w", err)
	}
	success = true
	return uri, size, nil
}

// Open opens a stored file for reading.
func (f *FS) Open(uri string) (*os.File, error) {
	abs, err := f.safePath(uri)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("filestore: open %s: %w", uri, err)
	}
	return file, nil
}

// Exists reports whether uri names a stored file.
func (f *FS) Exists(uri string) bool {
	abs, err := f.safePath(uri)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes a stored file.
func (f *FS) Remove(uri string) error {
	abs, err := f.safePath(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("filestore: remove %s: %w", uri, err)
	}
	return nil
}

// Sanitize reduces a client supplied file name to a safe base name.
func Sanitize(name string) string {
	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	clean := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		default:
			return -1
		}
	}, base)
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		return "document"
	}
	return truncateName(clean, maxNameBytes)
}

// maxNameBytes leaves room for the uuid prefix within the 255 byte limit
// most filesystems put on a file name.
const maxNameBytes = 200

// truncateName cuts name to at most max bytes on a rune boundary, keeping a
// short extension.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	limit := max - len(ext)
	cut := 0
	for i, r := range stem {
		end := i + utf8.RuneLen(r)
		if end > limit {
			break
		}
		cut = end
	}
	return stem[:cut] + ext
}

// HumanSize renders a byte count for display, e.g. "2.0 kB".
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
