package gcs

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	storagedom "github.com/curaOS/Creative-Project/internal/domain/storage"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "creative/abc.html", objectName("creative", "abc", storagedom.ContentTypeHTML))
	assert.Equal(t, "a/b/abc.jpg", objectName("a/b", "abc", storagedom.ContentTypeJPEG))
}

func TestNewReceiptUploaderGCS_DefaultPrefix(t *testing.T) {
	u := NewReceiptUploaderGCS(nil, " bucket ", " / ")
	assert.Equal(t, DefaultPrefix, u.Prefix)
	assert.Equal(t, "bucket", u.Bucket)
}

func TestUpload_NotConfigured(t *testing.T) {
	u := NewReceiptUploaderGCS(nil, "bucket", "")

	_, err := u.Upload(context.Background(), storagedom.ContentTypeHTML, []byte("x"))
	assert.ErrorIs(t, err, ErrClientNil)
	assert.ErrorIs(t, err, storagedom.ErrUpload)

	_, err = u.Upload(context.Background(), storagedom.ContentTypeHTML, nil)
	assert.ErrorIs(t, err, storagedom.ErrEmptyPayload)
}

func TestIsPreconditionFailed(t *testing.T) {
	assert.True(t, isPreconditionFailed(fmt.Errorf("wrap: %w", &googleapi.Error{Code: http.StatusPreconditionFailed})))
	assert.False(t, isPreconditionFailed(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, isPreconditionFailed(fmt.Errorf("plain")))
}
