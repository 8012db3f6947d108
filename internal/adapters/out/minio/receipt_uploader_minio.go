// internal/adapters/out/minio/receipt_uploader_minio.go
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	storagedom "github.com/curaOS/Creative-Project/internal/domain/storage"
)

const (
	DefaultPrefix = "creative"
	uploadTimeout = 30 * time.Second
)

var ErrNotConfigured = errors.New("minio: storage not configured")

// Options for an S3-compatible endpoint.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Region skips the bucket-location lookup when set.
	Region string
}

// ReceiptUploaderMinIO stores claim artifacts in an S3-compatible bucket.
// Object keys are creative/<uuid>.<ext>; the key is the receipt's TransactionID.
type ReceiptUploaderMinIO struct {
	client *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

var _ storagedom.Uploader = (*ReceiptUploaderMinIO)(nil)

// NewReceiptUploaderMinIO connects to the endpoint and makes sure the bucket exists.
func NewReceiptUploaderMinIO(ctx context.Context, o Options) (*ReceiptUploaderMinIO, error) {
	endpoint := strings.TrimSpace(o.Endpoint)
	bucket := strings.TrimSpace(o.Bucket)
	if endpoint == "" || bucket == "" {
		return nil, ErrNotConfigured
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(o.AccessKey), strings.TrimSpace(o.SecretKey), ""),
		Secure: o.UseSSL,
		Region: strings.TrimSpace(o.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(checkCtx, bucket, minio.MakeBucketOptions{Region: o.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &ReceiptUploaderMinIO{
		client: client,
		bucket: bucket,
		prefix: DefaultPrefix,
		logger: zap.NewNop(),
	}, nil
}

func (s *ReceiptUploaderMinIO) SetLogger(l *zap.Logger) {
	if s == nil || l == nil {
		return
	}
	s.logger = l.Named("minio")
}

func (s *ReceiptUploaderMinIO) Upload(ctx context.Context, contentType string, payload []byte) (storagedom.Receipt, error) {
	if err := storagedom.CheckUpload(contentType, payload); err != nil {
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, err)
	}
	if s == nil || s.client == nil {
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, ErrNotConfigured)
	}

	objectName := path.Join(s.prefix, uuid.NewString()+storagedom.Extension(contentType))

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	start := time.Now()
	info, err := s.client.PutObject(uploadCtx, s.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		s.logger.Warn("Upload abort", zap.String("object", objectName), zap.Error(err))
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, fmt.Errorf("put object: %w", err))
	}

	s.logger.Info("Upload ok",
		zap.String("object", objectName),
		zap.String("etag", info.ETag),
		zap.Duration("elapsed", time.Since(start)),
	)
	return storagedom.Receipt{ContentType: contentType, TransactionID: objectName}, nil
}
