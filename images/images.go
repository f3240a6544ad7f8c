package images

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"ecoreport-service/models"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"
)

// timestampLayout matches the report datetime down to the second, with
// filesystem-safe separators.
const timestampLayout = "20060102_150405"

// Store writes uploaded report photos under per-category folders.
type Store struct {
	root  string
	clock clockwork.Clock
}

// NewStore creates a store rooted at the given directory.
func NewStore(root string, clock clockwork.Clock) *Store {
	return &Store{root: root, clock: clock}
}

// Root returns the image root directory.
func (s *Store) Root() string {
	return s.root
}

// EnsureFolders creates the image root and one folder per category.
// Safe to call repeatedly.
func (s *Store) EnsureFolders() error {
	for _, category := range models.Categories {
		if err := os.MkdirAll(filepath.Join(s.root, category), 0755); err != nil {
			return fmt.Errorf("failed to create image folder for %s: %w", category, err)
		}
	}
	return nil
}

// SaveAll stores the uploaded files into the category folder and returns
// the stored filenames. Names are {timestamp}_{N}{ext} where N is the
// 1-based position in the input, so skipped entries leave gaps. Files
// without a name are skipped; per-file failures are logged and skipped.
func (s *Store) SaveAll(category string, files []*multipart.FileHeader) []string {
	category = models.NormalizeCategory(category)
	ts := s.clock.Now().Format(timestampLayout)

	saved := make([]string, 0, len(files))
	for i, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		name := sanitizeName(fmt.Sprintf("%s_%d%s", ts, i+1, filepath.Ext(fh.Filename)))
		if err := s.saveOne(fh, filepath.Join(s.root, category, name)); err != nil {
			log.Errorf("Failed to save image %s: %v", name, err)
			continue
		}
		saved = append(saved, name)
	}
	return saved
}

func (s *Store) saveOne(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// Resolve maps a category/filename pair to a path under the image root.
// The category must be known and the filename a clean base name; anything
// else, including missing files, resolves to false.
func (s *Store) Resolve(category, filename string) (string, bool) {
	known := false
	for _, c := range models.Categories {
		if category == c {
			known = true
			break
		}
	}
	if !known {
		return "", false
	}
	if filename == "" || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return "", false
	}

	path := filepath.Join(s.root, category, filename)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// sanitizeName keeps letters, digits, dots, dashes and underscores.
// Spaces become underscores and anything else is dropped.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}
