package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
)

const (
	storeDirMode    = 0o700
	recordFileMode  = 0o600
	tempFilePattern = ".record-*.tmp"

	DefaultExtension = ".json"
)

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

// Store keeps one file per record: <root>/<namespace>/<key><ext>.
type Store struct {
	root string
	ext  string
	mu   *sync.RWMutex
}

var (
	_ ports.RecordStore = (*Store)(nil)
	_ ports.TreeRemover = (*Store)(nil)
)

func NewStore(root string, ext string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("store root is empty")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}
	absRoot = filepath.Clean(absRoot)

	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return &Store{root: absRoot, ext: ext, mu: lockForPath(absRoot)}, nil
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Ensure(ctx context.Context, ns domain.Namespace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := s.dirFor(ns)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("create namespace %s: %w: %w", ns, domain.ErrStoreUnavailable, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, ns domain.Namespace, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathFor(ns, key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("record %s/%s: %w", ns, key, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("read record %s/%s: %w", ns, key, err)
	}

	return data, nil
}

func (s *Store) Put(ctx context.Context, ns domain.Namespace, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(ns, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tempName, err := writeTempFile(filepath.Dir(path), data)
	if err != nil {
		return fmt.Errorf("write record %s/%s: %w", ns, key, err)
	}
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace record %s/%s: %w", ns, key, err)
	}
	cleanup = false

	return nil
}

// Create links a fully written temp file into place, so the record either appears
// complete or not at all, and an existing record is never replaced.
func (s *Store) Create(ctx context.Context, ns domain.Namespace, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(ns, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tempName, err := writeTempFile(filepath.Dir(path), data)
	if err != nil {
		return fmt.Errorf("write record %s/%s: %w", ns, key, err)
	}
	defer func() {
		_ = os.Remove(tempName)
	}()

	if err := os.Link(tempName, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("record %s/%s: %w", ns, key, domain.ErrRecordExists)
		}
		return fmt.Errorf("create record %s/%s: %w", ns, key, err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, ns domain.Namespace) ([]ports.RecordInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.dirFor(ns)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list namespace %s: %w: %w", ns, domain.ErrStoreUnavailable, err)
	}

	records := make([]ports.RecordInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, s.ext) {
			continue
		}
		key := strings.TrimSuffix(name, s.ext)
		if domain.ValidateKey(key) != nil {
			continue
		}

		info := ports.RecordInfo{Key: key}
		if fileInfo, err := entry.Info(); err == nil {
			info.ModTime = fileInfo.ModTime()
		}
		records = append(records, info)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})

	return records, nil
}

func (s *Store) Delete(ctx context.Context, ns domain.Namespace, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(ns, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete record %s/%s: %w", ns, key, err)
	}

	return nil
}

// RemoveTree refuses to touch the filesystem root or the user's home directory.
func (s *Store) RemoveTree(ctx context.Context, keep ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkRemovable(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(keep) == 0 {
		if err := os.RemoveAll(s.root); err != nil {
			return fmt.Errorf("remove store root: %w", err)
		}
		return nil
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read store root: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if slices.Contains(keep, entry.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", entry.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func (s *Store) checkRemovable() error {
	if filepath.Dir(s.root) == s.root {
		return fmt.Errorf("refusing to remove filesystem root %s", s.root)
	}
	if home, err := os.UserHomeDir(); err == nil && filepath.Clean(home) == s.root {
		return fmt.Errorf("refusing to remove home directory %s", s.root)
	}
	return nil
}

func (s *Store) dirFor(ns domain.Namespace) (string, error) {
	if err := ns.Validate(); err != nil {
		return "", err
	}
	if ns == domain.NamespaceRoot {
		return s.root, nil
	}

	return filepath.Join(s.root, filepath.FromSlash(string(ns))), nil
}

func (s *Store) pathFor(ns domain.Namespace, key string) (string, error) {
	if err := domain.ValidateKey(key); err != nil {
		return "", err
	}

	dir, err := s.dirFor(ns)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, key+s.ext), nil
}

func writeTempFile(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return "", fmt.Errorf("create directory: %w: %w", domain.ErrStoreUnavailable, err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := tempFile.Chmod(recordFileMode); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempName)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tempName, nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
