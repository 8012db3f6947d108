package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
	mintrequest "github.com/curaOS/Creative-Project/internal/domain/mintRequest"
	"github.com/curaOS/Creative-Project/internal/domain/royalty"
	"github.com/curaOS/Creative-Project/internal/domain/storage"
	tokendom "github.com/curaOS/Creative-Project/internal/domain/token"
)

// ------------------------------------------------------------
// RPC fake
// ------------------------------------------------------------

type viewCall struct {
	Contract string
	Method   string
	Args     map[string]any
}

// newRPCServer answers call_function queries with views[method] (raw JSON).
func newRPCServer(t *testing.T, views map[string]string, calls *[]viewCall) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params struct {
				RequestType string `json:"request_type"`
				Finality    string `json:"finality"`
				AccountID   string `json:"account_id"`
				MethodName  string `json:"method_name"`
				ArgsBase64  string `json:"args_base64"`
			} `json:"params"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "query", req.Method)
		assert.Equal(t, "call_function", req.Params.RequestType)
		assert.Equal(t, "final", req.Params.Finality)

		argsJSON, _ := base64.StdEncoding.DecodeString(req.Params.ArgsBase64)
		var args map[string]any
		_ = json.Unmarshal(argsJSON, &args)
		if calls != nil {
			*calls = append(*calls, viewCall{Contract: req.Params.AccountID, Method: req.Params.MethodName, Args: args})
		}

		body, ok := views[req.Params.MethodName]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": "creative",
				"result": map[string]any{"result": []int{}, "logs": []string{}, "error": "wasm execution failed with error: MethodNotFound"},
			})
			return
		}
		ints := make([]int, len(body))
		for i := range body {
			ints[i] = int(body[i])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": "creative",
			"result": map[string]any{"result": ints, "logs": []string{}, "block_height": 1},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCallView_ReadMetadata(t *testing.T) {
	var calls []viewCall
	srv := newRPCServer(t, map[string]string{
		ViewMetadataExtra: `{
			"mint_royalty_id": "alice.near",
			"mint_royalty_amount": 10,
			"mint_price": "1000000000000000000000000",
			"packages_script": "p",
			"render_script": "r",
			"style_css": "s",
			"parameters": null
		}`,
	}, &calls)

	c := NewContractClient(NewJSONRPCClient(srv.URL), nil, "nft.creative.testnet", "")
	md, err := c.ReadMetadata(context.Background())
	require.NoError(t, err)

	id, ok := md.MintRoyaltyID.Get()
	require.True(t, ok)
	assert.Equal(t, "alice.near", id)
	price, err := md.Price()
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", price.String())
	assert.False(t, md.Parameters.Present())

	require.Len(t, calls, 1)
	assert.Equal(t, "nft.creative.testnet", calls[0].Contract)
	assert.Empty(t, calls[0].Args)
}

func TestCallView_ContractError(t *testing.T) {
	srv := newRPCServer(t, map[string]string{}, nil)

	c := NewContractClient(NewJSONRPCClient(srv.URL), nil, "nft.creative.testnet", "")
	_, err := c.ReadMetadata(context.Background())

	var ve *ViewError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ViewMetadataExtra, ve.Method)
	assert.Contains(t, ve.Reason, "MethodNotFound")
}

func TestCallView_RPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"creative","error":{"name":"HANDLER_ERROR","code":-32000,"message":"Server error","cause":{"name":"UNKNOWN_ACCOUNT"}}}`))
	}))
	defer srv.Close()

	err := NewJSONRPCClient(srv.URL).CallView(context.Background(), "x.testnet", "m", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN_ACCOUNT")
}

func TestTokensForOwner(t *testing.T) {
	var calls []viewCall
	srv := newRPCServer(t, map[string]string{
		ViewTokensForOwner: `[{"id":"1","owner_id":"bob.near","metadata":{"media":"txPREV","media_animation":"txLIVE","extra":"e30="}}]`,
	}, &calls)

	c := NewContractClient(NewJSONRPCClient(srv.URL), nil, "nft.creative.testnet", "")
	tokens, err := c.TokensForOwner(context.Background(), "bob.near")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "1", tokens[0].ID)
	assert.Equal(t, "https://arweave.net/txPREV", tokens[0].MediaURL())
	assert.Equal(t, "bob.near", calls[0].Args["account_id"])

	_, err = c.TokensForOwner(context.Background(), "Bad Account")
	assert.ErrorIs(t, err, tokendom.ErrInvalidAccountID)
}

func TestBids_SortedFromMarket(t *testing.T) {
	var calls []viewCall
	srv := newRPCServer(t, map[string]string{
		ViewGetBids: `{
			"dave.near": {"bidder":"dave.near","amount":"5"},
			"carol.near": {"bidder":"carol.near","amount":"7","recipient":"carol.near","sell_on_share":0},
			"": {"bidder":"","amount":"1"}
		}`,
	}, &calls)

	c := NewContractClient(NewJSONRPCClient(srv.URL), nil, "nft.creative.testnet", "market.creative.testnet")
	bids, err := c.Bids(context.Background(), "3")
	require.NoError(t, err)

	require.Len(t, bids, 2)
	assert.Equal(t, "carol.near", bids[0].BidderAccountID)
	assert.Equal(t, "7", bids[0].Amount.String())
	assert.Equal(t, "dave.near", bids[1].BidderAccountID)

	assert.Equal(t, "market.creative.testnet", calls[0].Contract)
	assert.Equal(t, "3", calls[0].Args["token_id"])
}

// ------------------------------------------------------------
// Relayer
// ------------------------------------------------------------

type relayed struct {
	req  relayRequest
	auth string
}

func newRelayer(t *testing.T, status int, resp string, got *relayed) *RelayerClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/call", r.URL.Path)
		if got != nil {
			got.auth = r.Header.Get("Authorization")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got.req))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return NewRelayerClient(srv.URL, "key", "bob.near")
}

func TestMint_SendsArgsGasAndDeposit(t *testing.T) {
	var got relayed
	relayer := newRelayer(t, http.StatusOK, `{"transaction_hash":"9xHash"}`, &got)
	c := NewContractClient(nil, relayer, "nft.creative.testnet", "")

	req, err := mintrequest.New(
		storage.Receipt{TransactionID: "txLIVE"},
		storage.Receipt{TransactionID: "txPREV"},
		42,
		royalty.Split{BeneficiaryID: "alice.near", AmountBasisPoints: 10, Percentage: royalty.ProtocolPercentage},
		contract.NewAmount(1000),
	)
	require.NoError(t, err)

	receipt, err := c.Mint(context.Background(), req, contract.ClaimGas, req.Price)
	require.NoError(t, err)
	assert.Equal(t, contract.Receipt{Method: contract.MethodMint, TransactionHash: "9xHash"}, receipt)

	assert.Equal(t, "Bearer key", got.auth)
	assert.Equal(t, "bob.near", got.req.SignerID)
	assert.Equal(t, "nft.creative.testnet", got.req.ContractID)
	assert.Equal(t, "mint", got.req.MethodName)
	assert.Equal(t, "300000000000000", got.req.Gas)
	assert.Equal(t, "1000", got.req.Deposit)
	assert.JSONEq(t, `{
		"tokenMetadata": {"media": "txPREV", "media_animation": "txLIVE", "extra": "eyJzZWVkIjo0Mn0="},
		"token_royalty": {"split_between": {"alice.near": 10}, "percentage": 10}
	}`, string(got.req.Args))
}

func TestRelayer_RejectionKeepsReasonVerbatim(t *testing.T) {
	relayer := newRelayer(t, http.StatusBadRequest, `{"error":"insufficient deposit"}`, nil)
	c := NewContractClient(nil, relayer, "nft.creative.testnet", "")

	_, err := c.Burn(context.Background(), "1", contract.BurnGas, contract.OneYocto)
	require.True(t, contract.IsRejection(err))
	assert.Equal(t, "insufficient deposit", err.Error())

	var re *contract.RejectionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, contract.MethodBurn, re.Method)
}

func TestRelayer_OKWithFailureOutcome(t *testing.T) {
	relayer := newRelayer(t, http.StatusOK, `{"transaction_hash":"h","error":"Smart contract panicked: No bid"}`, nil)
	c := NewContractClient(nil, relayer, "nft.creative.testnet", "")

	_, err := c.AcceptBid(context.Background(), "1", "carol.near", contract.AcceptBidGas, contract.OneYocto)
	require.True(t, contract.IsRejection(err))
	assert.Equal(t, "Smart contract panicked: No bid", err.Error())
}

func TestRelayer_ServerErrorIsNotRejection(t *testing.T) {
	relayer := newRelayer(t, http.StatusBadGateway, `bad gateway`, nil)
	c := NewContractClient(nil, relayer, "nft.creative.testnet", "")

	_, err := c.Burn(context.Background(), "1", contract.BurnGas, contract.OneYocto)
	require.Error(t, err)
	assert.False(t, contract.IsRejection(err))
}

func TestAcceptBid_Args(t *testing.T) {
	var got relayed
	relayer := newRelayer(t, http.StatusOK, `{"transaction_hash":"h"}`, &got)
	c := NewContractClient(nil, relayer, "nft.creative.testnet", "")

	_, err := c.AcceptBid(context.Background(), " 1 ", "carol.near", contract.AcceptBidGas, contract.OneYocto)
	require.NoError(t, err)
	assert.Equal(t, "accept_bid", got.req.MethodName)
	assert.Equal(t, "250000000000000", got.req.Gas)
	assert.Equal(t, "1", got.req.Deposit)
	assert.JSONEq(t, `{"token_id":"1","bidder":"carol.near"}`, string(got.req.Args))
}

func TestNotConfigured(t *testing.T) {
	var c *ContractClient
	_, err := c.ReadMetadata(context.Background())
	assert.ErrorIs(t, err, ErrContractNotConfigured)

	c = NewContractClient(nil, nil, "", "")
	_, err = c.Burn(context.Background(), "1", contract.BurnGas, contract.OneYocto)
	assert.ErrorIs(t, err, ErrContractNotConfigured)

	_, err = NewRelayerClient("", "", "").CallChange(context.Background(), "c", "m", nil, 1, contract.OneYocto)
	assert.ErrorIs(t, err, ErrRelayerNotConfigured)
}
