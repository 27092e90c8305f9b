package schedule

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileStore keeps a kind's entries in a single JSON file.
type FileStore struct {
	fs   afero.Fs
	path string
	kind Kind
	log  *zap.Logger
	now  func() time.Time
}

func NewFileStore(fs afero.Fs, dir string, kind Kind, log *zap.Logger) *FileStore {
	return &FileStore{
		fs:   fs,
		path: filepath.Join(dir, kind.FileName),
		kind: kind,
		log:  log.With(zap.String("kind", kind.Name), zap.String("path", filepath.Join(dir, kind.FileName))),
		now:  time.Now,
	}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) tmpPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".tmp"
}

// Load reads the file, creating it as an empty list when missing.
func (s *FileStore) Load(ctx context.Context) []Entry {
	if err := s.ensureFile(); err != nil {
		s.log.Warn("could not create data file", zap.Error(err))
	}

	entries, err := s.Read(ctx)
	if err != nil {
		s.log.Warn("could not load data file, starting empty", zap.Error(err))
		return []Entry{}
	}
	s.log.Info("loaded entries", zap.Int("count", len(entries)))
	return entries
}

// Read decodes the file without creating anything. A missing file reads as
// an empty list.
func (s *FileStore) Read(_ context.Context) ([]Entry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	entries, dropped, err := decodeEntries(s.kind, data, s.now())
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.log.Info("dropped invalid or stale entries", zap.Int("dropped", dropped))
	}
	return entries, nil
}

func (s *FileStore) ensureFile() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if _, err := s.fs.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return afero.WriteFile(s.fs, s.path, []byte("[]"), 0o644)
}

// Save writes entries to a temporary file and renames it over the data file,
// so a failed write leaves the previous content untouched.
func (s *FileStore) Save(_ context.Context, entries []Entry) error {
	data, err := encodeEntries(s.kind, entries)
	if err != nil {
		return fmt.Errorf("encode %s entries: %w", s.kind.Name, err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.tmpPath()
	if err := s.writeTmp(tmp, data); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) writeTmp(tmp string, data []byte) error {
	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
