// internal/adapters/out/gcs/receipt_uploader_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	storagedom "github.com/curaOS/Creative-Project/internal/domain/storage"
)

// =====================================================
// GCS-based permanent storage for claim artifacts
// =====================================================

const DefaultPrefix = "creative"

var (
	ErrClientNil   = errors.New("gcs: client is nil")
	ErrBucketEmpty = errors.New("gcs: bucket is empty")
)

// ReceiptUploaderGCS writes each payload as a new write-once object.
// The object name is the receipt's TransactionID.
type ReceiptUploaderGCS struct {
	Client *storage.Client
	Bucket string
	Prefix string

	logger *zap.Logger
	newID  func() string
}

var _ storagedom.Uploader = (*ReceiptUploaderGCS)(nil)

// NewClient creates a GCS client, with a credentials file when one is configured
// (mainly for local dev) and Application Default Credentials otherwise.
func NewClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if f := strings.TrimSpace(credentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: storage.NewClient failed: %w", err)
	}
	return c, nil
}

func NewReceiptUploaderGCS(client *storage.Client, bucket, prefix string) *ReceiptUploaderGCS {
	p := strings.Trim(strings.TrimSpace(prefix), "/")
	if p == "" {
		p = DefaultPrefix
	}
	return &ReceiptUploaderGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
		Prefix: p,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
}

func (r *ReceiptUploaderGCS) SetLogger(l *zap.Logger) {
	if r == nil || l == nil {
		return
	}
	r.logger = l.Named("gcs")
}

func (r *ReceiptUploaderGCS) Upload(ctx context.Context, contentType string, payload []byte) (storagedom.Receipt, error) {
	if err := storagedom.CheckUpload(contentType, payload); err != nil {
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, err)
	}
	if r == nil || r.Client == nil {
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, ErrClientNil)
	}
	if r.Bucket == "" {
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, ErrBucketEmpty)
	}

	name := objectName(r.Prefix, r.newID(), contentType)
	start := time.Now()
	log := r.logger.With(zap.String("bucket", r.Bucket), zap.String("object", name))
	log.Info("Upload start", zap.Int("len", len(payload)))

	// DoesNotExist: 既存オブジェクトは絶対に上書きしない
	obj := r.Client.Bucket(r.Bucket).Object(name).If(storage.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		log.Warn("Upload abort", zap.String("reason", "write"), zap.Error(err))
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, fmt.Errorf("write object: %w", err))
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			err = fmt.Errorf("object %q already exists: %w", name, err)
		}
		log.Warn("Upload abort", zap.String("reason", "close"), zap.Error(err))
		return storagedom.Receipt{}, storagedom.WrapUpload(contentType, fmt.Errorf("finalize object: %w", err))
	}

	log.Info("Upload ok", zap.Duration("elapsed", time.Since(start)))
	return storagedom.Receipt{ContentType: contentType, TransactionID: name}, nil
}

// objectName builds "<prefix>/<id><ext>".
func objectName(prefix, id, contentType string) string {
	return path.Join(prefix, id+storagedom.Extension(contentType))
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
