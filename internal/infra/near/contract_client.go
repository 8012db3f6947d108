// internal/infra/near/contract_client.go
package near

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/curaOS/Creative-Project/internal/application/mint"
	"github.com/curaOS/Creative-Project/internal/application/ownership"
	"github.com/curaOS/Creative-Project/internal/domain/contract"
	mintrequest "github.com/curaOS/Creative-Project/internal/domain/mintRequest"
	tokendom "github.com/curaOS/Creative-Project/internal/domain/token"
)

// View-method names.
const (
	ViewMetadataExtra  = "nft_metadata_extra"
	ViewTokensForOwner = "nft_tokens_for_owner"
	ViewGetBids        = "get_bids"
)

var ErrContractNotConfigured = errors.New("near contract: contract id is empty")

// ContractClient binds the NFT and market contracts to the application ports.
type ContractClient struct {
	views   ViewCaller
	changes ChangeCaller

	NFTContractID    string
	MarketContractID string
}

var (
	_ mint.MetadataReader    = (*ContractClient)(nil)
	_ mint.TokenMinter       = (*ContractClient)(nil)
	_ ownership.OwnerActions = (*ContractClient)(nil)
	_ tokendom.OwnerReader   = (*ContractClient)(nil)
	_ tokendom.BidLister     = (*ContractClient)(nil)
)

func NewContractClient(views ViewCaller, changes ChangeCaller, nftContractID, marketContractID string) *ContractClient {
	return &ContractClient{
		views:            views,
		changes:          changes,
		NFTContractID:    strings.TrimSpace(nftContractID),
		MarketContractID: strings.TrimSpace(marketContractID),
	}
}

// ============================================================
// Views
// ============================================================

// ReadMetadata reads nft_metadata_extra from final state on every call.
func (c *ContractClient) ReadMetadata(ctx context.Context) (contract.Metadata, error) {
	if c == nil || c.views == nil || c.NFTContractID == "" {
		return contract.Metadata{}, ErrContractNotConfigured
	}
	var md contract.Metadata
	if err := c.views.CallView(ctx, c.NFTContractID, ViewMetadataExtra, nil, &md); err != nil {
		return contract.Metadata{}, err
	}
	return md, nil
}

func (c *ContractClient) TokensForOwner(ctx context.Context, accountID string) ([]tokendom.Token, error) {
	if c == nil || c.views == nil || c.NFTContractID == "" {
		return nil, ErrContractNotConfigured
	}
	accountID = strings.TrimSpace(accountID)
	if !tokendom.IsValidAccountID(accountID) {
		return nil, tokendom.ErrInvalidAccountID
	}

	var out []tokendom.Token
	if err := c.views.CallView(ctx, c.NFTContractID, ViewTokensForOwner, map[string]any{
		"account_id": accountID,
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// marketBid is one entry of the market's get_bids map.
type marketBid struct {
	Bidder string          `json:"bidder"`
	Amount contract.Amount `json:"amount"`
}

// Bids lists open bids from the market contract, sorted by bidder.
func (c *ContractClient) Bids(ctx context.Context, tokenID string) ([]tokendom.Bid, error) {
	if c == nil || c.views == nil || c.MarketContractID == "" {
		return nil, ErrContractNotConfigured
	}
	tokenID = strings.TrimSpace(tokenID)
	if err := tokendom.ValidateTokenID(tokenID); err != nil {
		return nil, err
	}

	var raw map[string]marketBid
	if err := c.views.CallView(ctx, c.MarketContractID, ViewGetBids, map[string]any{
		"token_id": tokenID,
	}, &raw); err != nil {
		return nil, err
	}

	bids := make([]tokendom.Bid, 0, len(raw))
	for key, b := range raw {
		bidder := strings.TrimSpace(b.Bidder)
		if bidder == "" {
			bidder = key
		}
		bid, err := tokendom.NewBid(bidder, b.Amount)
		if err != nil {
			continue
		}
		bids = append(bids, bid)
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].BidderAccountID < bids[j].BidderAccountID })
	return bids, nil
}

// ============================================================
// Change calls
// ============================================================

func (c *ContractClient) Mint(ctx context.Context, req mintrequest.MintRequest, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error) {
	if err := c.changeReady(); err != nil {
		return contract.Receipt{}, err
	}
	return c.changes.CallChange(ctx, c.NFTContractID, contract.MethodMint, req.Args(), gas, deposit)
}

func (c *ContractClient) Burn(ctx context.Context, tokenID string, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error) {
	if err := c.changeReady(); err != nil {
		return contract.Receipt{}, err
	}
	return c.changes.CallChange(ctx, c.NFTContractID, contract.MethodBurn, map[string]any{
		"token_id": strings.TrimSpace(tokenID),
	}, gas, deposit)
}

func (c *ContractClient) AcceptBid(ctx context.Context, tokenID, bidderAccountID string, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error) {
	if err := c.changeReady(); err != nil {
		return contract.Receipt{}, err
	}
	return c.changes.CallChange(ctx, c.NFTContractID, contract.MethodAcceptBid, map[string]any{
		"token_id": strings.TrimSpace(tokenID),
		"bidder":   strings.TrimSpace(bidderAccountID),
	}, gas, deposit)
}

func (c *ContractClient) changeReady() error {
	if c == nil || c.changes == nil || c.NFTContractID == "" {
		return ErrContractNotConfigured
	}
	return nil
}
