// internal/application/ownership/usecase.go
package ownership

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/curaOS/Creative-Project/internal/application/ui"
	"github.com/curaOS/Creative-Project/internal/domain/contract"
	tokendom "github.com/curaOS/Creative-Project/internal/domain/token"
)

// ============================================================
// Ports
// ============================================================

// OwnerActions are the owner-side change calls on the NFT contract.
// Rejections come back as *contract.RejectionError.
type OwnerActions interface {
	Burn(ctx context.Context, tokenID string, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error)
	AcceptBid(ctx context.Context, tokenID, bidderAccountID string, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error)
}

// ============================================================
// States / errors
// ============================================================

// ActionState of the last owner action on a token.
type ActionState string

const (
	StateIdle     ActionState = "IDLE"
	StateInFlight ActionState = "IN_FLIGHT"
	StateDone     ActionState = "DONE"
	StateFailed   ActionState = "FAILED"
)

var (
	ErrTokenBurned     = errors.New("ownership: token has been burned")
	ErrAttemptInFlight = errors.New("ownership: an action is already in flight for this token")
	ErrNotConfigured   = errors.New("ownership: usecase is not configured")
)

type tokenState struct {
	state    ActionState
	inFlight bool
	burned   bool
}

// ============================================================
// OwnershipUsecase
// ============================================================

// OwnershipUsecase runs burn / accept-bid for tokens the user owns.
//
// Bid freshness is not checked locally before AcceptBid: a bid that was
// withdrawn or outbid is rejected by the contract and surfaces as a chain
// rejection like any other failure.
type OwnershipUsecase struct {
	actions  OwnerActions
	bids     tokendom.BidLister
	observer ui.Observer
	logger   *zap.Logger

	mu     sync.Mutex
	tokens map[string]*tokenState
}

func NewOwnershipUsecase(actions OwnerActions, bids tokendom.BidLister, observer ui.Observer) *OwnershipUsecase {
	if observer == nil {
		observer = ui.Nop
	}
	return &OwnershipUsecase{
		actions:  actions,
		bids:     bids,
		observer: observer,
		logger:   zap.NewNop(),
		tokens:   make(map[string]*tokenState),
	}
}

func (u *OwnershipUsecase) SetLogger(l *zap.Logger) {
	if u == nil || l == nil {
		return
	}
	u.logger = l.Named("ownership_usecase")
}

// State returns the state of the last action on tokenID.
func (u *OwnershipUsecase) State(tokenID string) ActionState {
	u.mu.Lock()
	defer u.mu.Unlock()
	if ts, ok := u.tokens[strings.TrimSpace(tokenID)]; ok {
		return ts.state
	}
	return StateIdle
}

// Burned reports whether a burn of tokenID was acknowledged in this session.
func (u *OwnershipUsecase) Burned(tokenID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	ts, ok := u.tokens[strings.TrimSpace(tokenID)]
	return ok && ts.burned
}

// Bids lists open bids for a token that is still offered actions.
func (u *OwnershipUsecase) Bids(ctx context.Context, tokenID string) ([]tokendom.Bid, error) {
	if u == nil || u.bids == nil {
		return nil, ErrNotConfigured
	}
	tokenID = strings.TrimSpace(tokenID)
	if err := tokendom.ValidateTokenID(tokenID); err != nil {
		return nil, err
	}
	if u.Burned(tokenID) {
		return nil, ErrTokenBurned
	}
	return u.bids.Bids(ctx, tokenID)
}

// ------------------------------------------------------------
// Burn
// ------------------------------------------------------------

// Burn permanently destroys the token. Once acknowledged, every further
// action on the token returns ErrTokenBurned without reaching the chain.
func (u *OwnershipUsecase) Burn(ctx context.Context, tokenID string) error {
	tokenID = strings.TrimSpace(tokenID)
	return u.run(ctx, "Burn", tokenID, func(ctx context.Context) (contract.Receipt, error) {
		return u.actions.Burn(ctx, tokenID, contract.BurnGas, contract.OneYocto)
	}, func(ts *tokenState) {
		ts.burned = true
	}, zap.String("tokenId", tokenID))
}

// ------------------------------------------------------------
// AcceptBid
// ------------------------------------------------------------

// AcceptBid accepts bidderAccountID's open bid on the token.
func (u *OwnershipUsecase) AcceptBid(ctx context.Context, tokenID, bidderAccountID string) error {
	tokenID = strings.TrimSpace(tokenID)
	bidder := strings.TrimSpace(bidderAccountID)
	if !tokendom.IsValidAccountID(bidder) {
		return tokendom.ErrInvalidAccountID
	}
	return u.run(ctx, "AcceptBid", tokenID, func(ctx context.Context) (contract.Receipt, error) {
		return u.actions.AcceptBid(ctx, tokenID, bidder, contract.AcceptBidGas, contract.OneYocto)
	}, nil, zap.String("tokenId", tokenID), zap.String("bidder", bidder))
}

// ------------------------------------------------------------
// shared IDLE -> IN_FLIGHT -> DONE|FAILED
// ------------------------------------------------------------

func (u *OwnershipUsecase) run(
	ctx context.Context,
	op string,
	tokenID string,
	call func(context.Context) (contract.Receipt, error),
	onDone func(*tokenState),
	fields ...zap.Field,
) error {
	if u == nil || u.actions == nil {
		return ErrNotConfigured
	}
	if err := tokendom.ValidateTokenID(tokenID); err != nil {
		return err
	}

	ts, err := u.begin(tokenID)
	if err != nil {
		u.logger.Info(op+" rejected", append(fields, zap.Error(err))...)
		return err
	}

	start := time.Now()
	u.logger.Info(op+" start", fields...)
	u.observer.OnLoadingChange(true)

	receipt, err := call(ctx)

	u.mu.Lock()
	ts.inFlight = false
	if err != nil {
		ts.state = StateFailed
	} else {
		ts.state = StateDone
		if onDone != nil {
			onDone(ts)
		}
	}
	u.mu.Unlock()

	u.observer.OnLoadingChange(false)
	if err != nil {
		u.observer.OnAlert(ui.AlertMessage(err))
		u.logger.Warn(op+" abort", append(fields, zap.Error(err), zap.Duration("elapsed", time.Since(start)))...)
		return err
	}

	u.logger.Info(op+" ok", append(fields,
		zap.String("tx", receipt.TransactionHash),
		zap.Duration("elapsed", time.Since(start)),
	)...)
	return nil
}

func (u *OwnershipUsecase) begin(tokenID string) (*tokenState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	ts, ok := u.tokens[tokenID]
	if !ok {
		ts = &tokenState{state: StateIdle}
		u.tokens[tokenID] = ts
	}
	if ts.burned {
		return nil, ErrTokenBurned
	}
	if ts.inFlight {
		return nil, ErrAttemptInFlight
	}
	ts.inFlight = true
	ts.state = StateInFlight
	return ts, nil
}
