// Package media copies picked images into the app's own image directory so
// entries never point at files the user may later move or delete.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultExt is used when the source file has no extension.
const DefaultExt = ".jpg"

// Library is a directory of imported images.
type Library struct {
	fs  afero.Fs
	dir string

	// Now names new files.
	Now func() time.Time
}

// NewLibrary returns a library rooted at dir on fs. Use afero.NewOsFs for
// the real filesystem.
func NewLibrary(fs afero.Fs, dir string) *Library {
	return &Library{fs: fs, dir: dir, Now: time.Now}
}

// Dir is the directory images are copied into.
func (l *Library) Dir() string {
	return l.dir
}

// Import copies src into the library and returns the durable path. Files
// are named after the import time in milliseconds.
func (l *Library) Import(src string) (string, error) {
	in, err := l.fs.Open(src)
	if err != nil {
		return "", fmt.Errorf("media: open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("media: stat %s: %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("media: %s is a directory", src)
	}

	if err := l.fs.MkdirAll(l.dir, 0755); err != nil {
		return "", fmt.Errorf("media: create %s: %w", l.dir, err)
	}

	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = DefaultExt
	}
	dst, out, err := l.create(ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = l.fs.Remove(dst)
		return "", fmt.Errorf("media: copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		_ = l.fs.Remove(dst)
		return "", fmt.Errorf("media: close %s: %w", dst, err)
	}
	return dst, nil
}

// create opens a new file named after the current millisecond, stepping
// forward when that name is taken.
func (l *Library) create(ext string) (string, afero.File, error) {
	ms := l.Now().UnixMilli()
	for i := 0; i < 1000; i++ {
		name := filepath.Join(l.dir, strconv.FormatInt(ms+int64(i), 10)+ext)
		if l.Exists(name) {
			continue
		}
		f, err := l.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return name, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("media: create %s: %w", name, err)
		}
	}
	return "", nil, fmt.Errorf("media: no free file name in %s", l.dir)
}

// Exists reports whether path is a readable file.
func (l *Library) Exists(path string) bool {
	ok, err := afero.Exists(l.fs, path)
	return err == nil && ok
}
