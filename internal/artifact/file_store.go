package artifact

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

// DefaultDir is used when no directory is configured
const DefaultDir = ".taskgraph/artifacts"

const fileScheme = "file://"

// FileStore keeps artifacts in a local directory
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create artifact directory %s", dir), err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory of the store
func (s *FileStore) Dir() string {
	return s.dir
}

// Put writes content to <dir>/<digest><suffix>. Writing identical content
// again returns the same reference.
func (s *FileStore) Put(ctx context.Context, content []byte, suffix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, Digest(content)+suffix)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreWriteFailed, fmt.Sprintf("failed to write artifact %s", path), err)
	}
	return fileScheme + filepath.ToSlash(path), nil
}

// Get reads an artifact by its file:// reference
func (s *FileStore) Get(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := strings.CutPrefix(ref, fileScheme)
	if !ok {
		return nil, errors.New(errors.ErrCodeStoreNotFound, fmt.Sprintf("not a file artifact reference: %s", ref))
	}
	data, err := os.ReadFile(filepath.FromSlash(path))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, notFound(ref, err)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read artifact %s", ref), err)
	}
	return data, nil
}
