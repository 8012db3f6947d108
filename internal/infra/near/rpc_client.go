// internal/infra/near/rpc_client.go
package near

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TestnetEndpoint is the default NEAR RPC endpoint.
const TestnetEndpoint = "https://rpc.testnet.near.org"

var ErrRPCNotConfigured = errors.New("near rpc: client not configured")

// ViewCaller runs read-only contract methods.
type ViewCaller interface {
	// CallView calls `query` with request_type=call_function on final state
	// and decodes the method's JSON return value into out.
	CallView(ctx context.Context, contractID, method string, args any, out any) error
}

// JSONRPCClient is a simple HTTP JSON-RPC client for NEAR.
type JSONRPCClient struct {
	Endpoint string
	HTTP     *http.Client
}

var _ ViewCaller = (*JSONRPCClient)(nil)

// NewJSONRPCClient creates a NEAR JSON-RPC client; an empty endpoint falls
// back to TestnetEndpoint.
func NewJSONRPCClient(endpoint string) *JSONRPCClient {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = TestnetEndpoint
	}
	return &JSONRPCClient{
		Endpoint: ep,
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Name    string          `json:"name"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Cause   *struct {
		Name string          `json:"name"`
		Info json.RawMessage `json:"info,omitempty"`
	} `json:"cause,omitempty"`
}

func (e *rpcError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "near rpc: error code=%d message=%s", e.Code, e.Message)
	if e.Cause != nil && e.Cause.Name != "" {
		fmt.Fprintf(&b, " cause=%s", e.Cause.Name)
	}
	if len(e.Data) > 0 && string(e.Data) != "null" {
		fmt.Fprintf(&b, " data=%s", string(e.Data))
	}
	return b.String()
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

func (c *JSONRPCClient) call(ctx context.Context, method string, params any, out any) error {
	if c == nil || c.Endpoint == "" || c.HTTP == nil {
		return ErrRPCNotConfigured
	}

	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "creative",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("near rpc: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("near rpc: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("near rpc: http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("near rpc: http status=%d", resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("near rpc: decode response: %w", err)
	}
	if rr.Error != nil {
		return rr.Error
	}

	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("near rpc: unmarshal result: %w", err)
		}
	}
	return nil
}

// callFunctionResult is the `result` of a call_function query. RawResult holds
// the bytes returned by the contract (JSON for NEP-171 views). A contract
// panic is reported in Error with an empty RawResult.
type callFunctionResult struct {
	RawResult   []int    `json:"result"`
	Logs        []string `json:"logs"`
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash"`
	Error       string   `json:"error,omitempty"`
}

// ViewError is returned when the contract view itself fails.
type ViewError struct {
	ContractID string
	Method     string
	Reason     string
}

func (e *ViewError) Error() string {
	return fmt.Sprintf("near view %s.%s: %s", e.ContractID, e.Method, e.Reason)
}

func (c *JSONRPCClient) CallView(ctx context.Context, contractID, method string, args any, out any) error {
	contractID = strings.TrimSpace(contractID)
	method = strings.TrimSpace(method)
	if contractID == "" || method == "" {
		return fmt.Errorf("near rpc: contractID and method are required")
	}

	if args == nil {
		args = map[string]any{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("near rpc: marshal args: %w", err)
	}

	params := map[string]any{
		"request_type": "call_function",
		"finality":     "final",
		"account_id":   contractID,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(argsJSON),
	}

	var res callFunctionResult
	if err := c.call(ctx, "query", params, &res); err != nil {
		return err
	}
	if res.Error != "" {
		return &ViewError{ContractID: contractID, Method: method, Reason: res.Error}
	}

	raw, err := bytesFromInts(res.RawResult)
	if err != nil {
		return fmt.Errorf("near rpc: %s.%s result: %w", contractID, method, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("near rpc: decode %s.%s result: %w", contractID, method, err)
	}
	return nil
}

// bytesFromInts converts the RPC's byte array (JSON numbers 0..255).
func bytesFromInts(in []int) ([]byte, error) {
	out := make([]byte, len(in))
	for i, v := range in {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}
