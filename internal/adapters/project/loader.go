// Package project reads the optional per-project context file a repository can
// ship under .codecognition/.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"
)

const (
	contextDir  = ".codecognition"
	contextFile = "project-context.json"
)

type Loader struct {
	dir string
}

var _ ports.ProjectContextLoader = (*Loader)(nil)

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) Path() string {
	return filepath.Join(l.dir, contextDir, contextFile)
}

// Load returns an uninitialized context when the file does not exist. A file that
// exists but cannot be read or decoded is reported as an error.
func (l *Loader) Load(ctx context.Context) (domain.ProjectContext, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProjectContext{}, err
	}
	if l.dir == "" {
		return domain.ProjectContext{}, nil
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ProjectContext{}, nil
		}
		return domain.ProjectContext{}, fmt.Errorf("read project context: %w", err)
	}

	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ProjectContext{}, fmt.Errorf("decode project context: %w: %w", domain.ErrMalformedRecord, err)
	}

	out := domain.ProjectContext{Extra: map[string]any{}}
	for key, value := range raw {
		switch key {
		case "project_initialized":
			initialized, _ := value.(bool)
			out.ProjectInitialized = initialized
		case "name", "project_name":
			name, _ := value.(string)
			out.Name = name
		default:
			out.Extra[key] = value
		}
	}

	return out, nil
}
