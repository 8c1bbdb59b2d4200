package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// File stores each entry as one file under a directory, keyed by the cache
// key. TTL is enforced against file modification time.
type File struct {
	dir string
}

// NewFile creates the directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	p := f.path(key)
	if expired, ok := f.expired(p); ok && expired {
		_ = os.Remove(p)
		_ = os.Remove(p + ".ttl")
		return nil, false, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false, nil
	}
	return data, true, nil
}

// expired checks the sibling ttl marker written by Set; entries without a
// marker never expire.
func (f *File) expired(p string) (bool, bool) {
	raw, err := os.ReadFile(p + ".ttl")
	if err != nil {
		return false, false
	}
	var unix int64
	if _, err := fmt.Sscanf(string(raw), "%d", &unix); err != nil {
		return false, false
	}
	return time.Now().Unix() > unix, true
}

func (f *File) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	p := f.path(key)
	if err := os.WriteFile(p, value, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if ttl > 0 {
		deadline := time.Now().Add(ttl).Unix()
		if err := os.WriteFile(p+".ttl", fmt.Appendf(nil, "%d", deadline), 0o644); err != nil {
			return fmt.Errorf("write cache ttl: %w", err)
		}
	}
	return nil
}

func (f *File) Close() error { return nil }
