package mintrequest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
	"github.com/curaOS/Creative-Project/internal/domain/royalty"
	"github.com/curaOS/Creative-Project/internal/domain/storage"
)

// MintRequest is built once per claim attempt, after both storage receipts
// exist and the royalty split is resolved, and submitted by exactly one mint call.
type MintRequest struct {
	MediaID          string // preview image transaction id
	MediaAnimationID string // live document transaction id
	ExtraPayload     string // base64(JSON Extra)
	RoyaltySplit     royalty.Split
	Price            contract.Amount
}

// Extra is the free-form payload stored in token metadata.
type Extra struct {
	Seed int `json:"seed"`
}

// Errors
var (
	ErrInvalidMedia          = errors.New("mintRequest: invalid media")
	ErrInvalidMediaAnimation = errors.New("mintRequest: invalid media_animation")
	ErrInvalidRoyaltySplit   = errors.New("mintRequest: invalid royalty split")
	ErrInvalidExtra          = errors.New("mintRequest: invalid extra")
)

// Constructors

// New assembles the request from the two receipts, the split and the live price.
func New(
	live storage.Receipt,
	preview storage.Receipt,
	seed int,
	split royalty.Split,
	price contract.Amount,
) (MintRequest, error) {
	extra, err := EncodeExtra(Extra{Seed: seed})
	if err != nil {
		return MintRequest{}, err
	}
	mr := MintRequest{
		MediaID:          strings.TrimSpace(preview.TransactionID),
		MediaAnimationID: strings.TrimSpace(live.TransactionID),
		ExtraPayload:     extra,
		RoyaltySplit:     split,
		Price:            price,
	}
	if err := mr.validate(); err != nil {
		return MintRequest{}, err
	}
	return mr, nil
}

// Validation

func (m MintRequest) validate() error {
	if m.MediaID == "" {
		return ErrInvalidMedia
	}
	if m.MediaAnimationID == "" {
		return ErrInvalidMediaAnimation
	}
	if strings.TrimSpace(m.RoyaltySplit.BeneficiaryID) == "" || m.RoyaltySplit.Percentage <= 0 {
		return ErrInvalidRoyaltySplit
	}
	if m.ExtraPayload == "" {
		return ErrInvalidExtra
	}
	return nil
}

// ------------------------------------------------------------
// Extra payload
// ------------------------------------------------------------

func EncodeExtra(e Extra) (string, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidExtra, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func DecodeExtra(s string) (Extra, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Extra{}, fmt.Errorf("%w: %v", ErrInvalidExtra, err)
	}
	var e Extra
	if err := json.Unmarshal(raw, &e); err != nil {
		return Extra{}, fmt.Errorf("%w: %v", ErrInvalidExtra, err)
	}
	return e, nil
}

// ------------------------------------------------------------
// Wire form (mint args)
// ------------------------------------------------------------

// Args is the JSON argument object of the contract's mint method.
type Args struct {
	TokenMetadata TokenMetadata        `json:"tokenMetadata"`
	TokenRoyalty  royalty.TokenRoyalty `json:"token_royalty"`
}

type TokenMetadata struct {
	Media          string `json:"media"`
	MediaAnimation string `json:"media_animation"`
	Extra          string `json:"extra"`
}

func (m MintRequest) Args() Args {
	return Args{
		TokenMetadata: TokenMetadata{
			Media:          m.MediaID,
			MediaAnimation: m.MediaAnimationID,
			Extra:          m.ExtraPayload,
		},
		TokenRoyalty: m.RoyaltySplit.TokenRoyalty(),
	}
}
