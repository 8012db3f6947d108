// internal/domain/storage/receipt.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Content types uploaded by the claim pipeline.
const (
	ContentTypeHTML = "text/html"
	ContentTypeJPEG = "image/jpeg"
)

// Receipt is the permanent reference returned by the storage network.
// TransactionID is what mint metadata embeds; it never expires.
type Receipt struct {
	ContentType   string `json:"contentType"`
	TransactionID string `json:"transactionId"`
}

var (
	ErrUpload             = errors.New("storage: upload failed")
	ErrEmptyPayload       = errors.New("storage: payload is empty")
	ErrEmptyTransactionID = errors.New("storage: empty transaction id")
	ErrInvalidContentType = errors.New("storage: invalid content type")
)

// UploadError wraps any failure of a single upload round trip.
type UploadError struct {
	ContentType string
	Err         error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.ContentType, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Is(target error) bool { return target == ErrUpload }

// WrapUpload returns err as an *UploadError unless it already is one.
func WrapUpload(contentType string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UploadError
	if errors.As(err, &ue) {
		return err
	}
	return &UploadError{ContentType: contentType, Err: err}
}

// Uploader pushes one blob to permanent storage.
//
// Implementations make exactly one network round trip and do not retry.
// Upload is not idempotent: calling it again after a failure may create a
// second permanent record.
type Uploader interface {
	Upload(ctx context.Context, contentType string, payload []byte) (Receipt, error)
}

// CheckUpload validates the arguments every backend shares.
func CheckUpload(contentType string, payload []byte) error {
	if strings.TrimSpace(contentType) == "" {
		return ErrInvalidContentType
	}
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	return nil
}

func (r Receipt) Validate() error {
	if strings.TrimSpace(r.TransactionID) == "" {
		return ErrEmptyTransactionID
	}
	return nil
}

// Extension maps a content type to the object suffix used by blob backends.
func Extension(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case ContentTypeHTML:
		return ".html"
	case ContentTypeJPEG, "image/pjpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/json":
		return ".json"
	}
	return ".bin"
}
