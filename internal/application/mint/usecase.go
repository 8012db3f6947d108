// internal/application/mint/usecase.go
package mint

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/curaOS/Creative-Project/internal/application/ui"
	"github.com/curaOS/Creative-Project/internal/domain/contract"
	"github.com/curaOS/Creative-Project/internal/domain/design"
	mintrequest "github.com/curaOS/Creative-Project/internal/domain/mintRequest"
	"github.com/curaOS/Creative-Project/internal/domain/preview"
	"github.com/curaOS/Creative-Project/internal/domain/storage"
)

var (
	ErrAttemptInFlight = errors.New("mint: an attempt is already in flight")
	ErrNotConfigured   = errors.New("mint: usecase is not configured")
)

// ============================================================
// MintUsecase 本体
// ============================================================

// MintUsecase drives one creator view: DESIGN (Generate) then CLAIM (Claim).
// At most one action is in flight at a time; a second one is rejected with
// ErrAttemptInFlight.
type MintUsecase struct {
	metadata MetadataReader
	surfaces preview.SurfaceLoader
	capturer preview.Capturer
	uploader storage.Uploader
	minter   TokenMinter
	observer ui.Observer

	logger     *zap.Logger
	seeds      SeedSource
	sequential bool

	mu       sync.Mutex
	surface  preview.Surface // 現在表示中のデザイン（未生成なら nil）
	inFlight bool
	state    State
}

// NewMintUsecase wires the pipeline collaborators. Logger, seed source and
// upload ordering have defaults and can be replaced with the setters.
func NewMintUsecase(
	metadata MetadataReader,
	surfaces preview.SurfaceLoader,
	capturer preview.Capturer,
	uploader storage.Uploader,
	minter TokenMinter,
	observer ui.Observer,
) *MintUsecase {
	if observer == nil {
		observer = ui.Nop
	}
	return &MintUsecase{
		metadata: metadata,
		surfaces: surfaces,
		capturer: capturer,
		uploader: uploader,
		minter:   minter,
		observer: observer,
		logger:   zap.NewNop(),
		seeds:    RandomSeed,
		state:    StateIdle,
	}
}

func (u *MintUsecase) SetLogger(l *zap.Logger) {
	if u == nil || l == nil {
		return
	}
	u.logger = l.Named("mint_usecase")
}

func (u *MintUsecase) SetSeedSource(s SeedSource) {
	if u == nil || s == nil {
		return
	}
	u.seeds = s
}

// SetSequentialUploads forces the live upload to finish before the preview
// upload starts. By default both run concurrently.
func (u *MintUsecase) SetSequentialUploads(v bool) {
	if u == nil {
		return
	}
	u.sequential = v
}

// RandomSeed draws a seed in [design.MinSeed, design.MaxSeed].
func RandomSeed() int {
	return rand.IntN(design.MaxSeed-design.MinSeed+1) + design.MinSeed
}

// State returns the state of the current claim attempt (IDLE between attempts).
func (u *MintUsecase) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Design returns the document currently ready to be claimed.
func (u *MintUsecase) Design() (design.Document, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.surface == nil {
		return design.Document{}, false
	}
	return u.surface.Document(), true
}

func (u *MintUsecase) configured() bool {
	return u != nil &&
		u.metadata != nil &&
		u.surfaces != nil &&
		u.capturer != nil &&
		u.uploader != nil &&
		u.minter != nil
}

// acquire marks the view busy. It fails when another action is running.
func (u *MintUsecase) acquire() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inFlight {
		return ErrAttemptInFlight
	}
	u.inFlight = true
	return nil
}

func (u *MintUsecase) release() {
	u.mu.Lock()
	u.inFlight = false
	u.mu.Unlock()
}

// ============================================================
// Attempt
// ============================================================

// Attempt is the record of one claim. It is returned for both outcomes.
type Attempt struct {
	ID       string
	Seed     int
	State    State
	FailedAt State // 失敗した時点の状態（成功時は空）
	History  []State

	Live    storage.Receipt
	Preview storage.Receipt
	Request *mintrequest.MintRequest
	Receipt contract.Receipt
	Err     error

	StartedAt time.Time
	Elapsed   time.Duration
}

func (a *Attempt) Succeeded() bool { return a != nil && a.State == StateDone }
