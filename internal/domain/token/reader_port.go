package token

import "context"

// ========================================
// Read ports (契約のみ)
// ========================================

// OwnerReader lists tokens held by an account (contract view call).
type OwnerReader interface {
	TokensForOwner(ctx context.Context, accountID string) ([]Token, error)
}

// BidLister lists the open bids on a token (indexer query).
// The list is a snapshot; a listed bid may already be stale on chain.
type BidLister interface {
	Bids(ctx context.Context, tokenID string) ([]Bid, error)
}
