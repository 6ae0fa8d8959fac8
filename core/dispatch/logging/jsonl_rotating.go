package logging

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingJSONLStore is a JSONL journal whose file is rotated by size.
// Rotated files keep the journal's name with a timestamp suffix and are
// still searched by Query.
type RotatingJSONLStore struct {
	mu   sync.Mutex
	out  *lumberjack.Logger
	path string
}

// NewRotatingJSONLStore rotates path once it grows past maxSizeMB, keeping
// at most maxBackups files no older than maxAgeDays. Zero keeps everything.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingJSONLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &RotatingJSONLStore{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		},
		path: path,
	}, nil
}

func (s *RotatingJSONLStore) Append(ctx context.Context, rec LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeLine(ctx, s.out, rec)
}

// Query searches the rotated files oldest first, then the active one.
func (s *RotatingJSONLStore) Query(ctx context.Context, q LogQuery) ([]LogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files, err := s.rotated()
	if err != nil {
		return nil, err
	}
	var res []LogRecord
	for _, f := range append(files, s.path) {
		recs, err := scanFile(ctx, f, q)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	return res, nil
}

// rotated lists backups named "<base>-<timestamp><ext>". The timestamp
// format sorts lexically.
func (s *RotatingJSONLStore) rotated() ([]string, error) {
	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(s.path, ext)
	files, err := filepath.Glob(base + "-*" + ext)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (s *RotatingJSONLStore) Close() error {
	return s.out.Close()
}
