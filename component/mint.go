package component

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindshard/mindshard-server/builder/store/cache"
	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/builder/suichain"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
)

const (
	moveModule   = "adapter"
	moveFunction = "publish_adapter"

	mintLockExpiry = 2 * time.Minute

	gasPriceCacheKey = "sui:reference_gas_price"
	gasPriceCacheTTL = 30 * time.Second
)

// MintComponent drives the on-chain mint of an adapter. The uploader's
// wallet signature is checked before anything touches the chain, and the
// platform key pays for gas and submits the transaction.
type MintComponent struct {
	sui    *suichain.Client
	signer *suichain.Signer
	as     database.AdapterStore
	cache  cache.RedisClient
	cfg    *config.Config
}

// NewMintComponent resolves the platform key up front so a misconfigured
// deployment fails at startup, not on the first mint.
func NewMintComponent(cfg *config.Config) (*MintComponent, error) {
	if cfg.Sui.PlatformKeyHex == "" {
		return nil, fmt.Errorf("platform signing key not configured, %w",
			errorx.ErrPlatformKeyMissing.CustomError())
	}
	signer, err := suichain.NewSigner(cfg.Sui.PlatformKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform key: %w", err)
	}
	c := &MintComponent{
		sui:    suichain.NewClient(cfg.Sui.RPCEndpoint),
		signer: signer,
		as:     database.NewAdapterStore(),
		cfg:    cfg,
	}
	if cfg.Redis.Enable {
		rc, err := cache.NewCache(context.Background(), cache.RedisConfig{
			Addr:     cfg.Redis.Endpoint,
			Username: cfg.Redis.User,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init redis for mint locks: %w", err)
		}
		c.cache = rc
	}
	return c, nil
}

// Mint verifies the uploader's signature, submits the publish transaction
// with the platform key and records the adapter. Exactly one chain mutation
// happens per successful call; failures are never retried automatically.
func (c *MintComponent) Mint(ctx context.Context, req types.MintReq) (*types.MintResp, error) {
	message, err := base64.StdEncoding.DecodeString(req.MessageBytesBase64)
	if err != nil {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("messageBytesBase64 is not valid base64: %w", err),
			errorx.Ctx().Set("param", "messageBytesBase64"))
	}
	// auth gate: a bad signature must never reach the chain
	if err := suichain.VerifyPersonalMessage(req.UploaderAddress, message, req.Signature); err != nil {
		return nil, fmt.Errorf("mint rejected: %w", err)
	}

	existing, err := c.as.FindByManifestHash(ctx, req.ManifestHash)
	if err != nil && !errors.Is(err, errorx.ErrDatabaseNoRows) {
		// do not fall through to the chain when the dedup check itself failed
		return nil, fmt.Errorf("failed to check for existing mint: %w", err)
	}
	if existing != nil {
		return nil, errorx.AdapterAlreadyExists(
			fmt.Errorf("adapter with manifest hash %s already minted", req.ManifestHash),
			errorx.Ctx().Set("manifest_hash", req.ManifestHash))
	}

	var resp *types.MintResp
	mint := func(ctx context.Context) error {
		resp, err = c.mintOnChain(ctx, req)
		return err
	}
	if c.cache != nil {
		err = c.cache.RunWhileLocked(ctx, "mint:"+req.ManifestHash, mintLockExpiry, mint)
	} else {
		err = mint(ctx)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *MintComponent) mintOnChain(ctx context.Context, req types.MintReq) (*types.MintResp, error) {
	platformAddress := c.signer.Address()
	coins, err := c.sui.GetGasCoins(ctx, platformAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to query gas coins: %w", err)
	}
	if len(coins) == 0 {
		return nil, errorx.NoGasCoins(
			fmt.Errorf("platform address %s holds no gas coins", platformAddress),
			errorx.Ctx().Set("platform_address", platformAddress))
	}

	license := ""
	if req.Manifest != nil {
		license = req.Manifest.License
	}
	txBytes, err := c.sui.BuildMoveCall(ctx, suichain.MoveCallReq{
		Signer:    platformAddress,
		PackageID: c.cfg.Sui.PackageID,
		Module:    moveModule,
		Function:  moveFunction,
		TypeArgs:  []string{},
		Args:      []any{req.WalrusCID, req.ManifestHash, license, req.UploaderAddress},
		GasObject: coins[0].CoinObjectID,
		GasBudget: c.cfg.Sui.GasBudget,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build publish transaction: %w", err)
	}

	signature, err := c.signer.SignTransaction(txBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to sign publish transaction: %w", err)
	}
	txResp, err := c.sui.ExecuteTransaction(ctx, txBytes, []string{signature})
	if err != nil {
		return nil, fmt.Errorf("failed to execute publish transaction: %w", err)
	}

	adapter := database.Adapter{
		Name:           req.Name,
		ManifestHash:   req.ManifestHash,
		WalrusCID:      req.WalrusCID,
		Signature:      req.Signature,
		CreatorAddress: req.UploaderAddress,
		License:        license,
		Verified:       true,
	}
	if req.Manifest != nil {
		adapter.Description = req.Manifest.Description
		adapter.Version = req.Manifest.Version
		adapter.Task = req.Manifest.Task
		adapter.Language = req.Manifest.Language
		if len(req.Manifest.BaseModels) > 0 {
			adapter.BaseModel = req.Manifest.BaseModels[0]
		}
		if len(req.Manifest.Authors) > 0 {
			adapter.Creator = req.Manifest.Authors[0].Name
		}
		adapter.Versions = []types.AdapterVersion{{
			Version:      req.Manifest.Version,
			WalrusCID:    req.WalrusCID,
			ManifestHash: req.ManifestHash,
			CreatedAt:    time.Now().UTC(),
		}}
	}
	if _, err := c.as.Create(ctx, adapter); err != nil {
		// the tx is on chain at this point, surface the digest so the
		// record can be reconciled by hand
		slog.ErrorContext(ctx, "minted on chain but failed to record adapter",
			slog.String("digest", txResp.Digest), slog.Any("error", err))
		return nil, fmt.Errorf("minted with digest %s but failed to record adapter: %w", txResp.Digest, err)
	}

	return &types.MintResp{
		Message: "Adapter minted successfully",
		Digest:  txResp.Digest,
	}, nil
}

// VerifyManifest checks a wallet signature over a manifest JSON document.
func (c *MintComponent) VerifyManifest(ctx context.Context, req types.VerifyManifestReq) error {
	return suichain.VerifyPersonalMessage(req.ExpectedAddress, []byte(req.ManifestJSON), req.Signature)
}

// Health probes the configured fullnode. The reference gas price changes at
// epoch boundaries, so a short cache keeps health polling off the RPC.
func (c *MintComponent) Health(ctx context.Context) (map[string]any, error) {
	price, err := c.referenceGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("fullnode unreachable: %w", err)
	}
	return map[string]any{
		"ok":                true,
		"rpc":               c.cfg.Sui.RPCEndpoint,
		"referenceGasPrice": price,
		"platformAddress":   c.signer.Address(),
	}, nil
}

func (c *MintComponent) referenceGasPrice(ctx context.Context) (string, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, gasPriceCacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}
	price, err := c.sui.GetReferenceGasPrice(ctx)
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		if err := c.cache.SetEx(ctx, gasPriceCacheKey, price, gasPriceCacheTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache reference gas price", slog.Any("error", err))
		}
	}
	return price, nil
}
