package mint_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
	"github.com/curaOS/Creative-Project/internal/domain/design"
	mintrequest "github.com/curaOS/Creative-Project/internal/domain/mintRequest"
	"github.com/curaOS/Creative-Project/internal/domain/preview"
	"github.com/curaOS/Creative-Project/internal/domain/storage"
)

// ------------------------------------------------------------
// metadata
// ------------------------------------------------------------

type fakeMetadata struct {
	md    contract.Metadata
	err   error
	calls atomic.Int32
}

func (f *fakeMetadata) ReadMetadata(context.Context) (contract.Metadata, error) {
	f.calls.Add(1)
	return f.md, f.err
}

func fullMetadata() contract.Metadata {
	return contract.Metadata{
		MintRoyaltyID:     contract.Some("alice.near"),
		MintRoyaltyAmount: contract.Some(10),
		MintPrice:         contract.Some(contract.NewAmount(1_000)),
		PackagesScript:    contract.Some("p"),
		RenderScript:      contract.Some("r"),
		StyleCSS:          contract.Some("s"),
	}
}

// ------------------------------------------------------------
// surface / capture
// ------------------------------------------------------------

type fakeSurface struct {
	doc      design.Document
	attached bool
}

func (s *fakeSurface) Document() design.Document { return s.doc }
func (s *fakeSurface) Attached() bool            { return s.attached }

type fakeLoader struct {
	detached bool
	err      error
}

func (l *fakeLoader) Load(_ context.Context, doc design.Document) (preview.Surface, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &fakeSurface{doc: doc, attached: !l.detached}, nil
}

type fakeCapturer struct {
	err   error
	calls atomic.Int32
}

func (c *fakeCapturer) Capture(_ context.Context, s preview.Surface) (preview.Image, error) {
	c.calls.Add(1)
	if c.err != nil {
		return preview.Image{}, c.err
	}
	if !s.Attached() {
		return preview.Image{}, &preview.CaptureError{Err: preview.ErrSurfaceNotAttached}
	}
	return preview.Image{Data: []byte("jpeg:" + s.Document().HTML())}, nil
}

// ------------------------------------------------------------
// uploader
// ------------------------------------------------------------

type fakeUploader struct {
	ids  map[string]string
	errs map[string]error

	// block, when set, holds every upload until closed or ctx is done.
	block   chan struct{}
	entered chan struct{}
	once    sync.Once

	mu    sync.Mutex
	order []string
	calls atomic.Int32
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		ids: map[string]string{
			storage.ContentTypeHTML: "txLIVE",
			storage.ContentTypeJPEG: "txPREV",
		},
		errs: map[string]error{},
	}
}

func (u *fakeUploader) Upload(ctx context.Context, contentType string, payload []byte) (storage.Receipt, error) {
	u.calls.Add(1)
	u.mu.Lock()
	u.order = append(u.order, contentType)
	u.mu.Unlock()

	if u.block != nil {
		u.once.Do(func() { close(u.entered) })
		select {
		case <-u.block:
		case <-ctx.Done():
			return storage.Receipt{}, ctx.Err()
		}
	}
	if err := u.errs[contentType]; err != nil {
		return storage.Receipt{}, err
	}
	if len(payload) == 0 {
		return storage.Receipt{}, errors.New("empty payload")
	}
	return storage.Receipt{ContentType: contentType, TransactionID: u.ids[contentType]}, nil
}

func (u *fakeUploader) Order() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.order...)
}

// ------------------------------------------------------------
// minter
// ------------------------------------------------------------

type fakeMinter struct {
	err   error
	calls atomic.Int32

	mu      sync.Mutex
	req     mintrequest.MintRequest
	gas     contract.Gas
	deposit contract.Amount
}

func (m *fakeMinter) Mint(_ context.Context, req mintrequest.MintRequest, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.req, m.gas, m.deposit = req, gas, deposit
	m.mu.Unlock()
	if m.err != nil {
		return contract.Receipt{}, m.err
	}
	return contract.Receipt{Method: contract.MethodMint, TransactionHash: "hash-1"}, nil
}

// ------------------------------------------------------------
// observer
// ------------------------------------------------------------

type recorder struct {
	mu      sync.Mutex
	loading []bool
	alerts  []string
}

func (r *recorder) OnLoadingChange(b bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = append(r.loading, b)
}

func (r *recorder) OnAlert(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, s)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading, r.alerts = nil, nil
}

func (r *recorder) snapshot() ([]bool, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.loading...), append([]string(nil), r.alerts...)
}
