// internal/infra/arweave/uploader.go
package arweave

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/curaOS/Creative-Project/internal/domain/storage"
)

var ErrNotConfigured = errors.New("arweave: baseURL is empty; upload endpoint not configured")

// Arweave upload lambda などの HTTP API を叩く実装。
// 1 回の Upload は 1 回の POST のみ（リトライしない）。
type HTTPUploader struct {
	client  *http.Client
	baseURL string // 例: "https://xxxx.execute-api.us-east-1.amazonaws.com/prod/upload"
	apiKey  string // 認証が必要な場合に使用（ARWEAVE_API_KEY）
	logger  *zap.Logger
}

var _ storage.Uploader = (*HTTPUploader)(nil)

// NewHTTPUploader は Arweave 用の HTTP uploader を生成します。
func NewHTTPUploader(baseURL, apiKey string) *HTTPUploader {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")

	return &HTTPUploader{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		logger:  zap.NewNop(),
	}
}

func (u *HTTPUploader) SetLogger(l *zap.Logger) {
	if u == nil || l == nil {
		return
	}
	u.logger = l.Named("arweave")
}

func (u *HTTPUploader) SetHTTPClient(c *http.Client) {
	if u == nil || c == nil {
		return
	}
	u.client = c
}

// uploadRequest is the lambda's request body. Text payloads go as-is,
// binary payloads (image/*) are base64 encoded.
type uploadRequest struct {
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
}

type uploadResponse struct {
	Transaction struct {
		ID string `json:"id"`
	} `json:"transaction"`
}

// ----------------------------------------------------------------------
// storage.Uploader 実装
// ----------------------------------------------------------------------

func (u *HTTPUploader) Upload(ctx context.Context, contentType string, payload []byte) (storage.Receipt, error) {
	if err := storage.CheckUpload(contentType, payload); err != nil {
		return storage.Receipt{}, storage.WrapUpload(contentType, err)
	}
	if u == nil || u.baseURL == "" {
		return storage.Receipt{}, storage.WrapUpload(contentType, ErrNotConfigured)
	}

	start := time.Now()
	log := u.logger.With(zap.String("contentType", contentType), zap.Int("len", len(payload)))
	log.Info("Upload start")

	body, err := json.Marshal(uploadRequest{
		ContentType: contentType,
		Data:        encodeData(contentType, payload),
	})
	if err != nil {
		return storage.Receipt{}, storage.WrapUpload(contentType, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL, bytes.NewReader(body))
	if err != nil {
		log.Warn("Upload abort", zap.String("reason", "create_request"), zap.Error(err))
		return storage.Receipt{}, storage.WrapUpload(contentType, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		log.Warn("Upload abort", zap.String("reason", "http"), zap.Error(err))
		return storage.Receipt{}, storage.WrapUpload(contentType, fmt.Errorf("post to arweave: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("Upload abort",
			zap.String("reason", "status"),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", bodyBytes),
		)
		return storage.Receipt{}, storage.WrapUpload(contentType,
			fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(bodyBytes))))
	}

	var res uploadResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Warn("Upload abort", zap.String("reason", "decode"), zap.Error(err))
		return storage.Receipt{}, storage.WrapUpload(contentType, fmt.Errorf("decode upload response: %w", err))
	}

	receipt := storage.Receipt{
		ContentType:   contentType,
		TransactionID: strings.TrimSpace(res.Transaction.ID),
	}
	if err := receipt.Validate(); err != nil {
		log.Warn("Upload abort", zap.String("reason", "empty_id"), zap.ByteString("body", bodyBytes))
		return storage.Receipt{}, storage.WrapUpload(contentType, err)
	}

	log.Info("Upload ok",
		zap.String("tx", receipt.TransactionID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return receipt, nil
}

func encodeData(contentType string, payload []byte) string {
	if isText(contentType) {
		return string(payload)
	}
	return base64.StdEncoding.EncodeToString(payload)
}

func isText(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "text/") ||
		strings.HasPrefix(ct, "application/json")
}
