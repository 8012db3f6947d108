// internal/application/mint/generate.go
package mint

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/curaOS/Creative-Project/internal/application/ui"
	"github.com/curaOS/Creative-Project/internal/domain/design"
)

// ============================================================
// DESIGN: live metadata -> seed -> document -> surface
// ============================================================

// Generate assembles a fresh design with a random seed and loads it into the
// rendering surface, replacing any previous unclaimed design.
func (u *MintUsecase) Generate(ctx context.Context) (design.Document, error) {
	if u == nil || u.seeds == nil {
		return design.Document{}, ErrNotConfigured
	}
	return u.GenerateWithSeed(ctx, u.seeds())
}

// GenerateWithSeed is Generate with a caller-chosen seed.
func (u *MintUsecase) GenerateWithSeed(ctx context.Context, seed int) (design.Document, error) {
	if !u.configured() {
		return design.Document{}, ErrNotConfigured
	}
	if err := design.ValidateSeed(seed); err != nil {
		return design.Document{}, err
	}
	if err := u.acquire(); err != nil {
		u.logger.Info("Generate rejected", zap.String("reason", "in_flight"))
		return design.Document{}, err
	}
	defer u.release()

	start := time.Now()
	u.logger.Info("Generate start", zap.Int("seed", seed))
	u.observer.OnLoadingChange(true)

	doc, err := u.generate(ctx, seed)
	if err != nil {
		u.logger.Warn("Generate abort",
			zap.Int("seed", seed),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		u.observer.OnLoadingChange(false)
		u.observer.OnAlert(ui.AlertMessage(err))
		return design.Document{}, err
	}

	u.observer.OnLoadingChange(false)
	u.logger.Info("Generate ok",
		zap.Int("seed", seed),
		zap.Int("bytes", len(doc.HTML())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return doc, nil
}

func (u *MintUsecase) generate(ctx context.Context, seed int) (design.Document, error) {
	md, err := u.metadata.ReadMetadata(ctx)
	if err != nil {
		return design.Document{}, err
	}
	packages, render, style, err := md.DesignScripts()
	if err != nil {
		return design.Document{}, err
	}

	doc := design.Assemble(seed, packages, render, style)

	surface, err := u.surfaces.Load(ctx, doc)
	if err != nil {
		return design.Document{}, err
	}

	u.mu.Lock()
	u.surface = surface
	u.mu.Unlock()

	return doc, nil
}
