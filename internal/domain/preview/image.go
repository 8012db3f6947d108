// internal/domain/preview/image.go
package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/curaOS/Creative-Project/internal/domain/design"
	"github.com/curaOS/Creative-Project/internal/domain/storage"
)

// ContentType of every preview snapshot.
const ContentType = storage.ContentTypeJPEG

// Image is a raster snapshot of the surface at capture time. It is never
// cached: the surface may change, so capture right before use.
type Image struct {
	Data []byte
}

func (i Image) ContentType() string { return ContentType }

var (
	ErrCapture            = errors.New("preview: capture failed")
	ErrSurfaceNotAttached = errors.New("preview: surface is not attached")
	ErrSurfaceNotRendered = errors.New("preview: surface has not rendered a document")
)

// CaptureError is returned when the rendering surface cannot be snapshotted.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture preview: %v", e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

func (e *CaptureError) Is(target error) bool { return target == ErrCapture }

func WrapCapture(err error) error {
	if err == nil {
		return nil
	}
	var ce *CaptureError
	if errors.As(err, &ce) {
		return err
	}
	return &CaptureError{Err: err}
}

// Surface is a live rendering of one Design Document.
type Surface interface {
	// Document returns the document currently displayed.
	Document() design.Document
	// Attached reports whether the surface is loaded and rendered.
	Attached() bool
}

// SurfaceLoader displays a document and returns its surface.
type SurfaceLoader interface {
	Load(ctx context.Context, doc design.Document) (Surface, error)
}

// Capturer converts a rendered surface into a JPEG snapshot.
type Capturer interface {
	Capture(ctx context.Context, surface Surface) (Image, error)
}
