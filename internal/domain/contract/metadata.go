// internal/domain/contract/metadata.go
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ============================================================
// Contract metadata (nft_metadata_extra)
// ============================================================

// Metadata is the extra metadata declared by the NFT contract. Every field is
// optional on the wire; callers check presence instead of trusting zero values.
type Metadata struct {
	MintRoyaltyID     Field[string] `json:"mint_royalty_id"`
	MintRoyaltyAmount Field[int]    `json:"mint_royalty_amount"`
	MintPrice         Field[Amount] `json:"mint_price"`

	PackagesScript Field[string] `json:"packages_script"`
	RenderScript   Field[string] `json:"render_script"`
	StyleCSS       Field[string] `json:"style_css"`

	// 自由形式のパラメータ（indexer 側でそのまま返される）
	Parameters Field[json.RawMessage] `json:"parameters"`
}

var ErrMissingField = errors.New("contract: metadata field missing")

// MissingFieldError names the absent metadata key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("contract metadata is missing %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// ErrMissingMintPrice is returned when mint_price is absent; minting never
// falls back to a default price.
var ErrMissingMintPrice = &MissingFieldError{Field: "mint_price"}

// DesignScripts returns the three fragments needed to assemble a document.
func (m Metadata) DesignScripts() (packages, render, style string, err error) {
	var ok bool
	if packages, ok = m.PackagesScript.Get(); !ok {
		return "", "", "", &MissingFieldError{Field: "packages_script"}
	}
	if render, ok = m.RenderScript.Get(); !ok {
		return "", "", "", &MissingFieldError{Field: "render_script"}
	}
	if style, ok = m.StyleCSS.Get(); !ok {
		return "", "", "", &MissingFieldError{Field: "style_css"}
	}
	return packages, render, style, nil
}

// Price returns the live mint price.
func (m Metadata) Price() (Amount, error) {
	p, ok := m.MintPrice.Get()
	if !ok {
		return Amount{}, ErrMissingMintPrice
	}
	return p, nil
}
