package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Repository fetches every entity of one category.
type Repository[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

// YAMLRepository reads a category from a file holding a top-level YAML
// sequence. Unknown keys are rejected; an empty file is an empty catalog.
type YAMLRepository[T any] struct {
	Path string
}

// GetAll decodes the whole file.
func (r YAMLRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.Path, err)
	}
	defer f.Close()

	var out []T
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", r.Path, err)
	}
	return out, nil
}
