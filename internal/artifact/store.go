// Package artifact persists plan documents and reports under content-hash keys.
package artifact

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

// KeyPrefix is the object prefix every artifact is stored under
const KeyPrefix = "artifacts/"

// Store persists immutable artifacts and returns a reference URI
// (file://... or s3://...) that Get accepts back.
type Store interface {
	Put(ctx context.Context, content []byte, suffix string) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Config selects and configures a Store. An empty S3 bucket selects the
// local directory store.
type Config struct {
	Dir string
	S3  S3Config
}

// New returns the store selected by cfg
func New(cfg Config) (Store, error) {
	if strings.TrimSpace(cfg.S3.Bucket) != "" {
		return NewS3Store(cfg.S3)
	}
	return NewFileStore(cfg.Dir)
}

// Digest returns the hex blake3 digest of content
func Digest(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Key returns the content-addressed object key for content
func Key(content []byte, suffix string) string {
	return KeyPrefix + Digest(content) + suffix
}

// PutJSON encodes v as indented JSON and stores it with a .json suffix
func PutJSON(ctx context.Context, s Store, v any) (string, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileMarshal, "failed to encode artifact", err)
	}
	return s.Put(ctx, payload, ".json")
}

func notFound(ref string, cause error) error {
	return errors.Wrap(errors.ErrCodeStoreNotFound, "artifact not found: "+ref, cause)
}
