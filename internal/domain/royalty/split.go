// internal/domain/royalty/split.go
package royalty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
)

// ProtocolPercentage is the administrative fee layered on every split.
const ProtocolPercentage = 10

var ErrMissingRoyaltyData = errors.New("royalty: missing royalty data")

// MissingRoyaltyDataError is returned instead of minting with an undefined split.
type MissingRoyaltyDataError struct {
	Field string
}

func (e *MissingRoyaltyDataError) Error() string {
	return fmt.Sprintf("royalty data is missing from contract metadata: %s", e.Field)
}

func (e *MissingRoyaltyDataError) Is(target error) bool { return target == ErrMissingRoyaltyData }

// Split is the royalty attached to one mint.
type Split struct {
	BeneficiaryID     string
	AmountBasisPoints int
	Percentage        int
}

// Resolve builds the split from live contract metadata. There is no fallback
// beneficiary or share: absent fields fail the resolution.
func Resolve(md contract.Metadata) (Split, error) {
	id, ok := md.MintRoyaltyID.Get()
	if !ok || strings.TrimSpace(id) == "" {
		return Split{}, &MissingRoyaltyDataError{Field: "mint_royalty_id"}
	}
	amount, ok := md.MintRoyaltyAmount.Get()
	if !ok {
		return Split{}, &MissingRoyaltyDataError{Field: "mint_royalty_amount"}
	}
	if amount < 0 {
		return Split{}, fmt.Errorf("royalty: negative mint_royalty_amount %d", amount)
	}

	return Split{
		BeneficiaryID:     strings.TrimSpace(id),
		AmountBasisPoints: amount,
		Percentage:        ProtocolPercentage,
	}, nil
}

// ------------------------------------------------------------
// Wire form (token_royalty)
// ------------------------------------------------------------

// TokenRoyalty is the contract argument shape:
//
//	{"split_between": {"<account>": <amount>}, "percentage": 10}
type TokenRoyalty struct {
	SplitBetween map[string]int `json:"split_between"`
	Percentage   int            `json:"percentage"`
}

func (s Split) TokenRoyalty() TokenRoyalty {
	return TokenRoyalty{
		SplitBetween: map[string]int{s.BeneficiaryID: s.AmountBasisPoints},
		Percentage:   s.Percentage,
	}
}

// DisplayShare is the creator share shown next to a design (amount * 100).
func (s Split) DisplayShare() int {
	return s.AmountBasisPoints * 100
}
