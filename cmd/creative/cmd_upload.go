package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/curaOS/Creative-Project/internal/platform/di"
)

var uploadContentType string

// uploadCmd pushes one file through the configured storage backend.
// デバッグ用: 単体でアップロード経路を確認する。
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to the configured permanent storage (debug)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "content type; sniffed from the file when empty")
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	ct := strings.TrimSpace(uploadContentType)
	if ct == "" {
		ct = http.DetectContentType(data)
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
	}

	c, err := di.NewUploadContainer(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	logger.Debug("[debug-upload] start",
		zap.String("backend", cfg.StorageBackend),
		zap.String("file", path),
		zap.String("contentType", ct),
		zap.Int("bytes", len(data)),
	)
	rcpt, err := c.Uploader.Upload(ctx, ct, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rcpt.TransactionID, rcpt.ContentType)
	return nil
}
