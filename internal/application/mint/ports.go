// internal/application/mint/ports.go
package mint

import (
	"context"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
	mintrequest "github.com/curaOS/Creative-Project/internal/domain/mintRequest"
)

// ============================================================
// コントラクト読み取りポート
// ============================================================

// MetadataReader reads nft_metadata_extra from the live contract.
// Implementations must not cache: royalty terms and price can change.
type MetadataReader interface {
	ReadMetadata(ctx context.Context) (contract.Metadata, error)
}

// ============================================================
// チェーンミント実行ポート
// ============================================================

// TokenMinter submits the on-chain mint call. A contract-side rejection is
// returned as *contract.RejectionError carrying the raw reason.
type TokenMinter interface {
	Mint(
		ctx context.Context,
		req mintrequest.MintRequest,
		gas contract.Gas,
		deposit contract.Amount,
	) (contract.Receipt, error)
}

// SeedSource draws the random seed for a new design.
type SeedSource func() int
