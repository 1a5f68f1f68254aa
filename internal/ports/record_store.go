package ports

import (
	"context"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
)

type RecordInfo struct {
	Key     string
	ModTime time.Time
}

// RecordStore is a namespaced key/value store holding one encoded record per key.
//
// Get returns domain.ErrRecordNotFound for missing keys. Create must be atomic and
// return domain.ErrRecordExists instead of replacing an existing record. List returns
// keys in ascending order.
type RecordStore interface {
	Ensure(ctx context.Context, ns domain.Namespace) error
	Get(ctx context.Context, ns domain.Namespace, key string) ([]byte, error)
	Put(ctx context.Context, ns domain.Namespace, key string, data []byte) error
	Create(ctx context.Context, ns domain.Namespace, key string, data []byte) error
	List(ctx context.Context, ns domain.Namespace) ([]RecordInfo, error)
	Delete(ctx context.Context, ns domain.Namespace, key string) error
}

// TreeRemover is implemented by stores that own a directory tree. RemoveTree deletes
// the whole tree when keep is empty, otherwise every top-level entry not named in keep.
type TreeRemover interface {
	RemoveTree(ctx context.Context, keep ...string) error
}
