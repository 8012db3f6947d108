// internal/domain/contract/call.go
package contract

import "errors"

// Gas is a prepaid gas budget in gas units.
type Gas uint64

// TGas is 10^12 gas units.
const TGas Gas = 1_000_000_000_000

// Fixed per-action budgets.
const (
	DesignGas    Gas = 200 * TGas
	ClaimGas     Gas = 300 * TGas
	BurnGas      Gas = 290 * TGas
	AcceptBidGas Gas = 250 * TGas
)

// Change-method names on the NFT contract.
const (
	MethodMint      = "mint"
	MethodBurn      = "burn_design"
	MethodAcceptBid = "accept_bid"
)

// Receipt acknowledges a change call accepted by the chain.
type Receipt struct {
	Method          string `json:"method"`
	TransactionHash string `json:"transactionHash"`
}

var ErrChainRejection = errors.New("contract: call rejected")

// RejectionError carries the raw contract/chain failure reason.
// Error returns the reason unchanged so it can be shown to the user verbatim.
type RejectionError struct {
	Method string
	Reason string
}

func (e *RejectionError) Error() string { return e.Reason }

func (e *RejectionError) Is(target error) bool { return target == ErrChainRejection }

// IsRejection reports whether err is an on-chain rejection.
func IsRejection(err error) bool { return errors.Is(err, ErrChainRejection) }
