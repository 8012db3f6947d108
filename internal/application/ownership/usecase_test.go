package ownership_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/curaOS/Creative-Project/internal/application/ownership"
	"github.com/curaOS/Creative-Project/internal/domain/contract"
	tokendom "github.com/curaOS/Creative-Project/internal/domain/token"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	method  string
	tokenID string
	bidder  string
	gas     contract.Gas
	deposit string
}

type fakeChain struct {
	mu    sync.Mutex
	calls []call
	err   error

	block   chan struct{}
	entered chan struct{}
}

func (f *fakeChain) record(c call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	return f.err
}

func (f *fakeChain) Burn(_ context.Context, tokenID string, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error) {
	err := f.record(call{method: contract.MethodBurn, tokenID: tokenID, gas: gas, deposit: deposit.String()})
	return contract.Receipt{Method: contract.MethodBurn, TransactionHash: "burn-tx"}, err
}

func (f *fakeChain) AcceptBid(_ context.Context, tokenID, bidder string, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error) {
	err := f.record(call{method: contract.MethodAcceptBid, tokenID: tokenID, bidder: bidder, gas: gas, deposit: deposit.String()})
	return contract.Receipt{Method: contract.MethodAcceptBid, TransactionHash: "bid-tx"}, err
}

func (f *fakeChain) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type fakeBids struct {
	bids  []tokendom.Bid
	calls int
}

func (f *fakeBids) Bids(context.Context, string) ([]tokendom.Bid, error) {
	f.calls++
	return f.bids, nil
}

type recorder struct {
	mu      sync.Mutex
	loading []bool
	alerts  []string
}

func (r *recorder) OnLoadingChange(b bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = append(r.loading, b)
}

func (r *recorder) OnAlert(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, s)
}

func TestBurn(t *testing.T) {
	chain := &fakeChain{}
	obs := &recorder{}
	uc := ownership.NewOwnershipUsecase(chain, &fakeBids{}, obs)

	require.NoError(t, uc.Burn(context.Background(), " 7 "))

	assert.Equal(t, []call{{
		method:  contract.MethodBurn,
		tokenID: "7",
		gas:     contract.BurnGas,
		deposit: "1",
	}}, chain.Calls())
	assert.True(t, uc.Burned("7"))
	assert.Equal(t, ownership.StateDone, uc.State("7"))
	assert.Equal(t, []bool{true, false}, obs.loading)
	assert.Empty(t, obs.alerts)
}

func TestBurn_BlocksFurtherActions(t *testing.T) {
	chain := &fakeChain{}
	bids := &fakeBids{}
	obs := &recorder{}
	uc := ownership.NewOwnershipUsecase(chain, bids, obs)

	require.NoError(t, uc.Burn(context.Background(), "7"))

	err := uc.AcceptBid(context.Background(), "7", "carol.near")
	assert.ErrorIs(t, err, ownership.ErrTokenBurned)

	err = uc.Burn(context.Background(), "7")
	assert.ErrorIs(t, err, ownership.ErrTokenBurned)

	_, err = uc.Bids(context.Background(), "7")
	assert.ErrorIs(t, err, ownership.ErrTokenBurned)

	assert.Len(t, chain.Calls(), 1, "no chain call after burn")
	assert.Zero(t, bids.calls)
	assert.Equal(t, []bool{true, false}, obs.loading)

	// other tokens are unaffected
	require.NoError(t, uc.AcceptBid(context.Background(), "8", "carol.near"))
}

func TestAcceptBid(t *testing.T) {
	chain := &fakeChain{}
	obs := &recorder{}
	uc := ownership.NewOwnershipUsecase(chain, &fakeBids{}, obs)

	require.NoError(t, uc.AcceptBid(context.Background(), "3", "carol.near"))

	assert.Equal(t, []call{{
		method:  contract.MethodAcceptBid,
		tokenID: "3",
		bidder:  "carol.near",
		gas:     contract.AcceptBidGas,
		deposit: "1",
	}}, chain.Calls())
	assert.Equal(t, ownership.StateDone, uc.State("3"))
	assert.False(t, uc.Burned("3"))
}

func TestAcceptBid_StaleBidIsChainRejection(t *testing.T) {
	chain := &fakeChain{err: &contract.RejectionError{Method: contract.MethodAcceptBid, Reason: "No bid from carol.near"}}
	obs := &recorder{}
	uc := ownership.NewOwnershipUsecase(chain, &fakeBids{}, obs)

	err := uc.AcceptBid(context.Background(), "3", "carol.near")
	require.Error(t, err)
	assert.True(t, contract.IsRejection(err))

	assert.Equal(t, ownership.StateFailed, uc.State("3"))
	assert.Equal(t, []string{"No bid from carol.near"}, obs.alerts)
	assert.Equal(t, []bool{true, false}, obs.loading)

	// a failed action leaves the token actionable
	chain.err = nil
	require.NoError(t, uc.AcceptBid(context.Background(), "3", "dave.near"))
}

func TestBurn_FailureKeepsToken(t *testing.T) {
	chain := &fakeChain{err: &contract.RejectionError{Method: contract.MethodBurn, Reason: "Exceeded the prepaid gas"}}
	obs := &recorder{}
	uc := ownership.NewOwnershipUsecase(chain, &fakeBids{}, obs)

	err := uc.Burn(context.Background(), "9")
	require.Error(t, err)
	assert.False(t, uc.Burned("9"))
	assert.Equal(t, []string{"Exceeded the prepaid gas"}, obs.alerts)
}

func TestRejectsConcurrentActionOnSameToken(t *testing.T) {
	chain := &fakeChain{block: make(chan struct{}), entered: make(chan struct{})}
	uc := ownership.NewOwnershipUsecase(chain, &fakeBids{}, &recorder{})

	done := make(chan error, 1)
	go func() { done <- uc.Burn(context.Background(), "5") }()
	<-chain.entered

	assert.Equal(t, ownership.StateInFlight, uc.State("5"))
	err := uc.AcceptBid(context.Background(), "5", "carol.near")
	assert.ErrorIs(t, err, ownership.ErrAttemptInFlight)

	close(chain.block)
	require.NoError(t, <-done)
	assert.Len(t, chain.Calls(), 1)
}

func TestValidation(t *testing.T) {
	chain := &fakeChain{}
	obs := &recorder{}
	uc := ownership.NewOwnershipUsecase(chain, &fakeBids{}, obs)

	assert.ErrorIs(t, uc.Burn(context.Background(), " "), tokendom.ErrInvalidTokenID)
	assert.ErrorIs(t, uc.AcceptBid(context.Background(), "1", "Not Valid"), tokendom.ErrInvalidAccountID)
	assert.Empty(t, chain.Calls())
	assert.Empty(t, obs.loading)

	var nilUC *ownership.OwnershipUsecase
	assert.ErrorIs(t, nilUC.Burn(context.Background(), "1"), ownership.ErrNotConfigured)
}

func TestBids(t *testing.T) {
	bids := &fakeBids{bids: []tokendom.Bid{{BidderAccountID: "carol.near", Amount: contract.NewAmount(10)}}}
	uc := ownership.NewOwnershipUsecase(&fakeChain{}, bids, nil)

	got, err := uc.Bids(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, bids.bids, got)
}
