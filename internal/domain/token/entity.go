package token

import (
	"errors"
	"strings"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
)

// Token mirrors the contract's nft_tokens_for_owner entries.
// The chain owns the lifecycle; the client only reads id / media and issues
// burn or accept-bid against it.
type Token struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"owner_id"`
	Metadata Metadata `json:"metadata"`
}

type Metadata struct {
	Media          string `json:"media"`
	MediaAnimation string `json:"media_animation,omitempty"`
	Extra          string `json:"extra,omitempty"`
}

// Bid is an open offer on a token from the market contract.
type Bid struct {
	BidderAccountID string          `json:"bidder"`
	Amount          contract.Amount `json:"amount"`
}

// Errors
var (
	ErrInvalidTokenID   = errors.New("token: invalid tokenId")
	ErrInvalidAccountID = errors.New("token: invalid accountId")
	ErrNotFound         = errors.New("token: not found")
)

// Policy
var (
	// NEAR account ids: 2..64 chars of [a-z0-9_-] separated by dots.
	AccountIDMinLen = 2
	AccountIDMaxLen = 64
	MaxTokenIDLen   = 128

	// Gateway used to display media references.
	MediaGateway = "https://arweave.net/"
)

// Constructors

func NewBid(bidder string, amount contract.Amount) (Bid, error) {
	b := Bid{BidderAccountID: strings.TrimSpace(bidder), Amount: amount}
	if !IsValidAccountID(b.BidderAccountID) {
		return Bid{}, ErrInvalidAccountID
	}
	return b, nil
}

// Validation

func (t Token) Validate() error {
	if err := ValidateTokenID(t.ID); err != nil {
		return err
	}
	if t.OwnerID != "" && !IsValidAccountID(t.OwnerID) {
		return ErrInvalidAccountID
	}
	return nil
}

func ValidateTokenID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" || (MaxTokenIDLen > 0 && len(id) > MaxTokenIDLen) {
		return ErrInvalidTokenID
	}
	return nil
}

// MediaURL returns the gateway URL for the token's preview media.
func (t Token) MediaURL() string {
	m := strings.TrimSpace(t.Metadata.Media)
	if m == "" {
		return ""
	}
	return MediaGateway + m
}

// Helpers

func IsValidAccountID(s string) bool {
	if s = strings.TrimSpace(s); s == "" {
		return false
	}
	if len(s) < AccountIDMinLen || (AccountIDMaxLen > 0 && len(s) > AccountIDMaxLen) {
		return false
	}
	prevSep := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			prevSep = false
		case c == '-' || c == '_' || c == '.':
			if prevSep {
				return false
			}
			prevSep = true
		default:
			return false
		}
	}
	return !prevSep
}
