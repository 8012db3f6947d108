// internal/infra/near/relayer_client.go
package near

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/curaOS/Creative-Project/internal/domain/contract"
)

var ErrRelayerNotConfigured = errors.New("near relayer: client not configured")

// ChangeCaller submits signed change calls.
type ChangeCaller interface {
	CallChange(ctx context.Context, contractID, method string, args any, gas contract.Gas, deposit contract.Amount) (contract.Receipt, error)
}

// RelayerClient posts change calls to a signing relayer that holds the
// user's function-call key. The relayer signs as SignerID, waits for the
// transaction outcome and answers with the hash or the failure reason.
type RelayerClient struct {
	Endpoint string
	APIKey   string
	SignerID string
	HTTP     *http.Client

	logger *zap.Logger
}

var _ ChangeCaller = (*RelayerClient)(nil)

func NewRelayerClient(endpoint, apiKey, signerID string) *RelayerClient {
	return &RelayerClient{
		Endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		APIKey:   strings.TrimSpace(apiKey),
		SignerID: strings.TrimSpace(signerID),
		HTTP: &http.Client{
			// change calls wait for finality
			Timeout: 90 * time.Second,
		},
		logger: zap.NewNop(),
	}
}

func (c *RelayerClient) SetLogger(l *zap.Logger) {
	if c == nil || l == nil {
		return
	}
	c.logger = l.Named("near_relayer")
}

type relayRequest struct {
	SignerID   string          `json:"signer_id"`
	ContractID string          `json:"contract_id"`
	MethodName string          `json:"method_name"`
	Args       json.RawMessage `json:"args"`
	Gas        string          `json:"gas"`
	Deposit    string          `json:"deposit"`
}

type relayResponse struct {
	TransactionHash string `json:"transaction_hash"`
	Error           string `json:"error,omitempty"`
}

func (c *RelayerClient) CallChange(
	ctx context.Context,
	contractID, method string,
	args any,
	gas contract.Gas,
	deposit contract.Amount,
) (contract.Receipt, error) {
	if c == nil || c.Endpoint == "" || c.HTTP == nil {
		return contract.Receipt{}, ErrRelayerNotConfigured
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return contract.Receipt{}, fmt.Errorf("near relayer: marshal args: %w", err)
	}
	body, err := json.Marshal(relayRequest{
		SignerID:   c.SignerID,
		ContractID: strings.TrimSpace(contractID),
		MethodName: method,
		Args:       argsJSON,
		Gas:        strconv.FormatUint(uint64(gas), 10),
		Deposit:    deposit.String(),
	})
	if err != nil {
		return contract.Receipt{}, fmt.Errorf("near relayer: marshal request: %w", err)
	}

	start := time.Now()
	log := c.logger.With(
		zap.String("contract", contractID),
		zap.String("method", method),
		zap.Uint64("gas", uint64(gas)),
		zap.String("deposit", deposit.String()),
	)
	log.Info("CallChange start")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/call", bytes.NewReader(body))
	if err != nil {
		return contract.Receipt{}, fmt.Errorf("near relayer: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Warn("CallChange abort", zap.String("reason", "http"), zap.Error(err))
		return contract.Receipt{}, fmt.Errorf("near relayer: http do: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var rr relayResponse
	decodeErr := json.Unmarshal(raw, &rr)

	switch {
	case resp.StatusCode >= 500 && (decodeErr != nil || rr.Error == ""):
		log.Warn("CallChange abort", zap.String("reason", "status"), zap.Int("status", resp.StatusCode))
		return contract.Receipt{}, fmt.Errorf("near relayer: http status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	case decodeErr != nil:
		log.Warn("CallChange abort", zap.String("reason", "decode"), zap.Error(decodeErr))
		return contract.Receipt{}, fmt.Errorf("near relayer: decode response (status=%d): %w", resp.StatusCode, decodeErr)
	case rr.Error != "" || resp.StatusCode < 200 || resp.StatusCode >= 300:
		reason := rr.Error
		if reason == "" {
			reason = fmt.Sprintf("relayer status %d", resp.StatusCode)
		}
		log.Warn("CallChange rejected", zap.String("reason", reason), zap.String("tx", rr.TransactionHash))
		return contract.Receipt{}, &contract.RejectionError{Method: method, Reason: reason}
	case strings.TrimSpace(rr.TransactionHash) == "":
		return contract.Receipt{}, fmt.Errorf("near relayer: empty transaction_hash")
	}

	log.Info("CallChange ok", zap.String("tx", rr.TransactionHash), zap.Duration("elapsed", time.Since(start)))
	return contract.Receipt{Method: method, TransactionHash: rr.TransactionHash}, nil
}
