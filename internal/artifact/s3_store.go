package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

// S3Config configures an S3-compatible object store
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store keeps artifacts in an S3-compatible bucket
type S3Store struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

// NewS3Store validates cfg and creates the client. No request is made until
// the first Put or Get.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, storeConfigError("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, storeConfigError("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, storeConfigError("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to initialize s3 client", err)
	}

	return &S3Store{client: client, bucket: bucket, region: region}, nil
}

func storeConfigError(msg string) error {
	return errors.New(errors.ErrCodeConfigInvalid, msg).
		WithSuggestion("Set storage.s3.* in the config file or PLANNER_STORAGE__S3__* variables").
		WithSuggestion("Leave storage.s3.bucket empty to store artifacts locally")
}

// Bucket returns the configured bucket name
func (s *S3Store) Bucket() string {
	return s.bucket
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	if s.initErr != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, fmt.Sprintf("bucket %s is not available", s.bucket), s.initErr)
	}
	return nil
}

// Put uploads content under its content-hash key
func (s *S3Store) Put(ctx context.Context, content []byte, suffix string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := Key(content, suffix)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType(suffix),
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreWriteFailed, fmt.Sprintf("failed to upload %s", key), err)
	}
	return s.ref(key), nil
}

// Get downloads an artifact by its s3:// reference
func (s *S3Store) Get(ctx context.Context, ref string) ([]byte, error) {
	key, ok := strings.CutPrefix(ref, s.ref(""))
	if !ok || key == "" {
		return nil, errors.New(errors.ErrCodeStoreNotFound, fmt.Sprintf("reference %s is not in bucket %s", ref, s.bucket))
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, fmt.Sprintf("failed to fetch %s", ref), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		code := minio.ToErrorResponse(err).Code
		if code == "NoSuchKey" || code == "NoSuchBucket" {
			return nil, notFound(ref, err)
		}
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, fmt.Sprintf("failed to read %s", ref), err)
	}
	return data, nil
}

func (s *S3Store) ref(key string) string {
	return "s3://" + s.bucket + "/" + key
}

func contentType(suffix string) string {
	if suffix == ".json" {
		return "application/json"
	}
	return "application/octet-stream"
}
