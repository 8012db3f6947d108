// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	gcsadapter "github.com/curaOS/Creative-Project/internal/adapters/out/gcs"
	minioadapter "github.com/curaOS/Creative-Project/internal/adapters/out/minio"
	"github.com/curaOS/Creative-Project/internal/application/mint"
	"github.com/curaOS/Creative-Project/internal/application/ownership"
	"github.com/curaOS/Creative-Project/internal/application/ui"
	storagedom "github.com/curaOS/Creative-Project/internal/domain/storage"
	arweaveinfra "github.com/curaOS/Creative-Project/internal/infra/arweave"
	appcfg "github.com/curaOS/Creative-Project/internal/infra/config"
	"github.com/curaOS/Creative-Project/internal/infra/indexer"
	"github.com/curaOS/Creative-Project/internal/infra/near"
	"github.com/curaOS/Creative-Project/internal/infra/render"
	"github.com/curaOS/Creative-Project/internal/infra/secret"
)

// Container は cmd から使う依存オブジェクトの束。
type Container struct {
	Config *appcfg.Config
	Logger *zap.Logger

	Contract *near.ContractClient
	Indexer  *indexer.Client // INDEXER_URL 未設定なら nil
	Uploader storagedom.Uploader
	Renderer *render.Renderer

	Mint      *mint.MintUsecase
	Ownership *ownership.OwnershipUsecase

	cleanupFn []func()
}

// Close closes the browser and every owned client.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.cleanupFn) - 1; i >= 0; i-- {
		c.cleanupFn[i]()
	}
	c.cleanupFn = nil
}

// NewContainer wires config -> infra -> usecases. Chrome is started lazily
// on the first design load.
func NewContainer(ctx context.Context, cfg *appcfg.Config, logger *zap.Logger, observer ui.Observer) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("di")

	c := &Container{Config: cfg, Logger: logger}

	// ------------------------------------------------------------
	// 1. Secrets (only when a value references Secret Manager)
	// ------------------------------------------------------------
	resolve, err := c.secretResolver(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	// ------------------------------------------------------------
	// 2. Chain
	// ------------------------------------------------------------
	relayerKey, err := resolve(ctx, cfg.RelayerAPIKey)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("di: RELAYER_API_KEY: %w", err)
	}
	rpc := near.NewJSONRPCClient(cfg.NearRPCURL)
	relayer := near.NewRelayerClient(cfg.RelayerURL, relayerKey, cfg.AccountID)
	relayer.SetLogger(logger)
	c.Contract = near.NewContractClient(rpc, relayer, cfg.NFTContractID, cfg.MarketContractID)
	log.Info("near contract client initialized",
		zap.String("rpc", rpc.Endpoint),
		zap.String("nft", cfg.NFTContractID),
		zap.String("market", cfg.MarketContractID),
		zap.Bool("relayer", strings.TrimSpace(cfg.RelayerURL) != ""),
	)

	if strings.TrimSpace(cfg.IndexerURL) != "" {
		ix, err := indexer.NewClient(cfg.IndexerURL)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Indexer = ix
	} else {
		log.Info("indexer not configured (INDEXER_URL empty)")
	}

	// ------------------------------------------------------------
	// 3. Storage
	// ------------------------------------------------------------
	up, err := c.newUploader(ctx, cfg, logger, resolve)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Uploader = up

	// ------------------------------------------------------------
	// 4. Rendering
	// ------------------------------------------------------------
	c.Renderer = render.New(render.Config{
		Bin:            cfg.ChromeBin,
		DebuggerURL:    cfg.ChromeDebuggerURL,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		Settle:         cfg.RenderSettle(),
		JPEGQuality:    cfg.JPEGQuality,
		LoadTimeout:    cfg.RenderTimeout,
	})
	c.Renderer.SetLogger(logger)
	c.cleanupFn = append(c.cleanupFn, func() { _ = c.Renderer.Close() })

	// ------------------------------------------------------------
	// 5. Usecases
	// ------------------------------------------------------------
	c.Mint = mint.NewMintUsecase(c.Contract, c.Renderer, c.Renderer, c.Uploader, c.Contract, observer)
	c.Mint.SetLogger(logger)
	c.Mint.SetSequentialUploads(cfg.SequentialUploads())

	c.Ownership = ownership.NewOwnershipUsecase(c.Contract, c.Contract, observer)
	c.Ownership.SetLogger(logger)

	return c, nil
}

// NewUploadContainer wires only the storage side, for commands that upload
// without touching the chain.
func NewUploadContainer(ctx context.Context, cfg *appcfg.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}
	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{Config: cfg, Logger: logger}
	resolve, err := c.secretResolver(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	up, err := c.newUploader(ctx, cfg, logger, resolve)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Uploader = up
	return c, nil
}

type resolveFunc func(ctx context.Context, v string) (string, error)

func plainValue(_ context.Context, v string) (string, error) { return strings.TrimSpace(v), nil }

func (c *Container) secretResolver(ctx context.Context, cfg *appcfg.Config) (resolveFunc, error) {
	if !secret.IsRef(cfg.RelayerAPIKey) && !secret.IsRef(cfg.ArweaveAPIKey) && !secret.IsRef(cfg.MinIOSecretKey) {
		return plainValue, nil
	}

	var opts []option.ClientOption
	if f := strings.TrimSpace(cfg.GCPCreds); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	p, err := secret.NewProviderSM(ctx, cfg.GCPProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("di: secret provider: %w", err)
	}
	c.cleanupFn = append(c.cleanupFn, func() { _ = p.Close() })
	c.Logger.Named("di").Info("secret manager provider initialized", zap.String("project", p.ProjectID))
	return p.Resolve, nil
}

func (c *Container) newUploader(ctx context.Context, cfg *appcfg.Config, logger *zap.Logger, resolve resolveFunc) (storagedom.Uploader, error) {
	log := logger.Named("di")

	switch cfg.StorageBackend {
	case appcfg.StorageArweave:
		key, err := resolve(ctx, cfg.ArweaveAPIKey)
		if err != nil {
			return nil, fmt.Errorf("di: ARWEAVE_API_KEY: %w", err)
		}
		u := arweaveinfra.NewHTTPUploader(cfg.ArweaveBaseURL, key)
		u.SetLogger(logger)
		log.Info("arweave HTTPUploader initialized", zap.String("baseURL", cfg.ArweaveBaseURL))
		return u, nil

	case appcfg.StorageGCS:
		client, err := gcsadapter.NewClient(ctx, cfg.GCPCreds)
		if err != nil {
			return nil, err
		}
		c.cleanupFn = append(c.cleanupFn, func() { _ = client.Close() })
		u := gcsadapter.NewReceiptUploaderGCS(client, cfg.GCSBucket, "")
		u.SetLogger(logger)
		log.Info("gcs uploader initialized", zap.String("bucket", cfg.GCSBucket))
		return u, nil

	case appcfg.StorageMinIO:
		secretKey, err := resolve(ctx, cfg.MinIOSecretKey)
		if err != nil {
			return nil, fmt.Errorf("di: MINIO_SECRET_KEY: %w", err)
		}
		u, err := minioadapter.NewReceiptUploaderMinIO(ctx, minioadapter.Options{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: secretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			Region:    cfg.MinIORegion,
		})
		if err != nil {
			return nil, fmt.Errorf("di: minio: %w", err)
		}
		u.SetLogger(logger)
		log.Info("minio uploader initialized", zap.String("endpoint", cfg.MinIOEndpoint), zap.String("bucket", cfg.MinIOBucket))
		return u, nil
	}
	return nil, fmt.Errorf("%w: storage backend %q", appcfg.ErrInvalidConfig, cfg.StorageBackend)
}
