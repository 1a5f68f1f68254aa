package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
)

type record struct {
	data    []byte
	modTime time.Time
}

// Store is a process-local RecordStore. Nothing survives the process.
type Store struct {
	mu         sync.RWMutex
	namespaces map[domain.Namespace]map[string]record
	now        func() time.Time
}

var _ ports.RecordStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		namespaces: map[domain.Namespace]map[string]record{},
		now:        time.Now,
	}
}

func (s *Store) Ensure(ctx context.Context, ns domain.Namespace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ns.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.namespace(ns)
	return nil
}

func (s *Store) Get(ctx context.Context, ns domain.Namespace, key string) ([]byte, error) {
	if err := validate(ctx, ns, key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.namespaces[ns][key]
	if !ok {
		return nil, fmt.Errorf("record %s/%s: %w", ns, key, domain.ErrRecordNotFound)
	}

	return cloneBytes(entry.data), nil
}

func (s *Store) Put(ctx context.Context, ns domain.Namespace, key string, data []byte) error {
	if err := validate(ctx, ns, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.namespace(ns)[key] = record{data: cloneBytes(data), modTime: s.now()}
	return nil
}

func (s *Store) Create(ctx context.Context, ns domain.Namespace, key string, data []byte) error {
	if err := validate(ctx, ns, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.namespace(ns)
	if _, ok := records[key]; ok {
		return fmt.Errorf("record %s/%s: %w", ns, key, domain.ErrRecordExists)
	}
	records[key] = record{data: cloneBytes(data), modTime: s.now()}

	return nil
}

func (s *Store) List(ctx context.Context, ns domain.Namespace) ([]ports.RecordInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ns.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.namespaces[ns]
	out := make([]ports.RecordInfo, 0, len(records))
	for key, entry := range records {
		out = append(out, ports.RecordInfo{Key: key, ModTime: entry.modTime})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})

	return out, nil
}

func (s *Store) Delete(ctx context.Context, ns domain.Namespace, key string) error {
	if err := validate(ctx, ns, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.namespaces[ns], key)
	return nil
}

// Touch overrides a record's modification time. Used by tests exercising pruning.
func (s *Store) Touch(ns domain.Namespace, key string, modTime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.namespaces[ns][key]; ok {
		entry.modTime = modTime
		s.namespaces[ns][key] = entry
	}
}

func (s *Store) namespace(ns domain.Namespace) map[string]record {
	records, ok := s.namespaces[ns]
	if !ok {
		records = map[string]record{}
		s.namespaces[ns] = records
	}
	return records
}

func validate(ctx context.Context, ns domain.Namespace, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ns.Validate(); err != nil {
		return err
	}
	return domain.ValidateKey(key)
}

func cloneBytes(data []byte) []byte {
	if data == nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
