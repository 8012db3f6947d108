// internal/application/mint/claim.go
package mint

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/curaOS/Creative-Project/internal/application/ui"
	"github.com/curaOS/Creative-Project/internal/domain/contract"
	"github.com/curaOS/Creative-Project/internal/domain/design"
	mintrequest "github.com/curaOS/Creative-Project/internal/domain/mintRequest"
	"github.com/curaOS/Creative-Project/internal/domain/preview"
	"github.com/curaOS/Creative-Project/internal/domain/royalty"
	"github.com/curaOS/Creative-Project/internal/domain/storage"
)

// ============================================================
// CLAIM: capture -> upload x2 -> royalty -> mint
// ============================================================

// Claim runs one claim attempt for the current design.
//
// Without a generated design the call is a no-op and returns (nil, nil).
// Otherwise the returned Attempt is non-nil and ends DONE or FAILED; on
// FAILED the attempt error is also returned. The design is consumed either
// way, so the next claim needs a new Generate.
func (u *MintUsecase) Claim(ctx context.Context) (*Attempt, error) {
	if !u.configured() {
		return nil, ErrNotConfigured
	}
	if err := u.acquire(); err != nil {
		u.logger.Info("Claim rejected", zap.String("reason", "in_flight"))
		return nil, err
	}
	defer u.release()

	u.mu.Lock()
	surface := u.surface
	u.mu.Unlock()

	if surface == nil {
		u.logger.Debug("Claim skipped", zap.String("reason", "no_design"))
		return nil, nil
	}

	doc := surface.Document()
	a := &Attempt{
		ID:        uuid.NewString(),
		Seed:      doc.Seed,
		State:     StateIdle,
		History:   []State{StateIdle},
		StartedAt: time.Now(),
	}
	log := u.logger.With(zap.String("attemptId", a.ID), zap.Int("seed", a.Seed))
	log.Info("Claim start")

	u.observer.OnLoadingChange(true)

	err := u.runClaim(ctx, a, surface, doc, log)

	a.Elapsed = time.Since(a.StartedAt)

	u.mu.Lock()
	u.surface = nil
	u.state = StateIdle
	u.mu.Unlock()

	u.observer.OnLoadingChange(false)
	if err != nil {
		a.Err = err
		u.observer.OnAlert(ui.AlertMessage(err))
		log.Warn("Claim abort",
			zap.String("failedAt", string(a.FailedAt)),
			zap.Error(err),
			zap.Duration("elapsed", a.Elapsed),
		)
		return a, err
	}

	log.Info("Claim ok",
		zap.String("media", a.Request.MediaID),
		zap.String("mediaAnimation", a.Request.MediaAnimationID),
		zap.String("tx", a.Receipt.TransactionHash),
		zap.Duration("elapsed", a.Elapsed),
	)
	return a, nil
}

func (u *MintUsecase) runClaim(
	ctx context.Context,
	a *Attempt,
	surface preview.Surface,
	doc design.Document,
	log *zap.Logger,
) error {
	// 1) preview capture
	u.advance(a, StateCapturing)
	img, err := u.capturer.Capture(ctx, surface)
	if err != nil {
		return u.fail(a, preview.WrapCapture(err))
	}
	log.Debug("Claim captured preview", zap.Int("bytes", len(img.Data)))

	// 2) live + preview uploads; first failure aborts, nothing is rolled back
	if err := u.uploadBoth(ctx, a, doc, img); err != nil {
		return u.fail(a, err)
	}
	log.Info("Claim uploaded",
		zap.String("live", a.Live.TransactionID),
		zap.String("preview", a.Preview.TransactionID),
	)

	// 3) royalty + price from live metadata
	u.advance(a, StateResolvingRoyalty)
	md, err := u.metadata.ReadMetadata(ctx)
	if err != nil {
		return u.fail(a, err)
	}
	split, err := royalty.Resolve(md)
	if err != nil {
		return u.fail(a, err)
	}
	price, err := md.Price()
	if err != nil {
		return u.fail(a, err)
	}
	req, err := mintrequest.New(a.Live, a.Preview, a.Seed, split, price)
	if err != nil {
		return u.fail(a, err)
	}
	a.Request = &req

	// 4) on-chain mint, exactly once
	u.advance(a, StateMinting)
	receipt, err := u.minter.Mint(ctx, req, contract.ClaimGas, price)
	if err != nil {
		return u.fail(a, err)
	}
	a.Receipt = receipt

	u.advance(a, StateDone)
	return nil
}

// uploadBoth issues the live document and preview image uploads. Neither
// depends on the other, so they run concurrently unless sequential is set.
func (u *MintUsecase) uploadBoth(ctx context.Context, a *Attempt, doc design.Document, img preview.Image) error {
	upload := func(ctx context.Context, contentType string, payload []byte) (storage.Receipt, error) {
		r, err := u.uploader.Upload(ctx, contentType, payload)
		if err == nil {
			err = r.Validate()
		}
		if err != nil {
			return storage.Receipt{}, storage.WrapUpload(contentType, err)
		}
		return r, nil
	}

	if u.sequential {
		u.advance(a, StateUploadingLive)
		live, err := upload(ctx, storage.ContentTypeHTML, doc.Bytes())
		if err != nil {
			return err
		}
		a.Live = live

		u.advance(a, StateUploadingPreview)
		prev, err := upload(ctx, img.ContentType(), img.Data)
		if err != nil {
			return err
		}
		a.Preview = prev
		return nil
	}

	var live, prev storage.Receipt
	failedAt := StateUploadingLive

	g, gctx := errgroup.WithContext(ctx)

	u.advance(a, StateUploadingLive)
	g.Go(func() error {
		r, err := upload(gctx, storage.ContentTypeHTML, doc.Bytes())
		if err != nil {
			return &stageError{state: StateUploadingLive, err: err}
		}
		live = r
		return nil
	})

	u.advance(a, StateUploadingPreview)
	g.Go(func() error {
		r, err := upload(gctx, img.ContentType(), img.Data)
		if err != nil {
			return &stageError{state: StateUploadingPreview, err: err}
		}
		prev = r
		return nil
	})

	err := g.Wait()
	// 成功した側の receipt は失敗時も残す（アップロードは取り消せない）
	a.Live, a.Preview = live, prev
	if err != nil {
		var se *stageError
		if errors.As(err, &se) {
			failedAt = se.state
			err = se.err
		}
		a.FailedAt = failedAt
		return err
	}
	return nil
}

// stageError tags a concurrent upload failure with the upload it came from.
type stageError struct {
	state State
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }

func (u *MintUsecase) advance(a *Attempt, to State) {
	mustTransition(a.State, to)
	a.State = to
	a.History = append(a.History, to)

	u.mu.Lock()
	u.state = to
	u.mu.Unlock()
}

func (u *MintUsecase) fail(a *Attempt, err error) error {
	if a.FailedAt == "" {
		a.FailedAt = a.State
	}
	u.advance(a, StateFailed)
	return err
}
