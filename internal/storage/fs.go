package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FSStore stages uploads on local disk until they have been parsed.
type FSStore struct {
	base string
	now  func() time.Time
}

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./uploads"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, now: time.Now}, nil
}

func (s *FSStore) Base() string { return s.base }

// Stage copies r into a new file named after the current time in
// milliseconds plus the extension of name. The returned release func removes
// the file and is safe to call more than once; callers defer it right after
// a nil error.
func (s *FSStore) Stage(r io.Reader, name string) (path string, release func(), err error) {
	f, err := s.create(extOf(name))
	if err != nil {
		return "", nil, err
	}
	path = f.Name()
	release = func() { _ = os.Remove(path) }
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		release()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		release()
		return "", nil, err
	}
	return path, release, nil
}

// create picks <millis><ext>, bumping the stamp when two uploads land in
// the same millisecond.
func (s *FSStore) create(ext string) (*os.File, error) {
	ms := s.now().UnixMilli()
	for i := 0; i < 100; i++ {
		name := filepath.Join(s.base, fmt.Sprintf("%d%s", ms+int64(i), ext))
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	return nil, errors.New("could not allocate staging file")
}

func extOf(name string) string {
	return strings.ToLower(filepath.Ext(filepath.Base(name)))
}
