package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/ports"
)

const s3KeyPrefix = "photos/"

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the base used to build references. Defaults to
	// the client endpoint followed by the bucket.
	PublicURL string
}

// S3Store stores photos in an S3-compatible bucket.
type S3Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     zerolog.Logger
}

// NewS3Store creates the client and makes sure the bucket exists.
func NewS3Store(ctx context.Context, cfg S3Config, log zerolog.Logger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client for %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("bucket created")
	}

	baseURL := strings.TrimRight(cfg.PublicURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s/%s", client.EndpointURL().String(), cfg.Bucket)
	}

	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: baseURL, log: log}, nil
}

func (s *S3Store) Name() string { return BackendS3 }

func (s *S3Store) Put(ctx context.Context, photo ports.PhotoUpload) (string, error) {
	key := s3KeyPrefix + uuid.NewString() + extension(photo.Filename, photo.ContentType)

	size := photo.Size
	if size <= 0 {
		size = -1
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, photo.Body, size, minio.PutObjectOptions{
		ContentType: photo.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Debug().Str("bucket", info.Bucket).Str("key", info.Key).Int64("size", info.Size).Msg("photo stored")
	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind ref. Removing a missing key succeeds.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key := s.objectKey(ref)
	if key == "" {
		s.log.Warn().Str("ref", ref).Msg("ignoring malformed s3 reference")
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// objectKey accepts either a full reference or a bare key. Only keys this
// store issued, under s3KeyPrefix, are returned; anything else yields "".
func (s *S3Store) objectKey(ref string) string {
	ref = strings.TrimSpace(ref)
	var key string
	switch {
	case strings.HasPrefix(ref, s.baseURL+"/"):
		key = strings.TrimPrefix(ref, s.baseURL+"/")
	case strings.Contains(ref, "://"):
		return ""
	default:
		key = strings.TrimPrefix(ref, "/")
	}

	name, ok := strings.CutPrefix(key, s3KeyPrefix)
	if !ok || name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return ""
	}
	return key
}
