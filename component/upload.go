package component

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/builder/store/s3"
	"github.com/mindshard/mindshard-server/builder/suichain"
	"github.com/mindshard/mindshard-server/builder/walrusrelay"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/mindshard/mindshard-server/component/bundle"
)

// UploadComponent bridges clients to the Walrus upload relay and registers
// uploaded bundles in the marketplace.
type UploadComponent struct {
	relay *walrusrelay.Client
	as    database.AdapterStore
	s3    s3.Client
	cfg   *config.Config
}

func NewUploadComponent(cfg *config.Config) (*UploadComponent, error) {
	c := &UploadComponent{
		relay: walrusrelay.NewClient(cfg.Walrus.RelayURL, cfg.Walrus.APIKey),
		as:    database.NewAdapterStore(),
		cfg:   cfg,
	}
	if cfg.S3.Enable {
		client, err := s3.NewMinio(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to init bundle mirror: %w", err)
		}
		c.s3 = client
	}
	return c, nil
}

func (c *UploadComponent) InitUpload(ctx context.Context, req types.InitUploadReq) (*walrusrelay.UploadSession, error) {
	session, err := c.relay.InitSession(req.Filename, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to init upload session: %w", err)
	}
	return session, nil
}

// UploadBlob validates the bundle and streams it through the relay. An
// invalid bundle never leaves the server.
func (c *UploadComponent) UploadBlob(ctx context.Context, params walrusrelay.UploadParams, data []byte) (json.RawMessage, error) {
	result := bundle.ValidateBundle(data)
	if !result.Valid {
		return nil, errorx.BundleInvalid(
			fmt.Errorf("bundle validation failed: %v", result.Errors),
			errorx.Ctx().Set("errors", result.Errors))
	}
	if params.EncodingType == "" {
		params.EncodingType = c.cfg.Walrus.EncodingType
	}
	raw, err := c.relay.UploadBlob(ctx, params, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to relay bundle: %w", err)
	}

	if c.s3 != nil {
		hash, hashErr := bundle.HashManifest(result.Manifest)
		if hashErr == nil {
			_, mirrorErr := s3.MirrorBundle(ctx, c.s3, c.cfg.S3.Bucket, hash,
				bytes.NewReader(data), int64(len(data)))
			if mirrorErr != nil {
				// the mirror is best effort, Walrus remains authoritative
				slog.WarnContext(ctx, "failed to mirror bundle",
					slog.String("manifest_hash", hash), slog.Any("error", mirrorErr))
			}
		}
	}
	return raw, nil
}

// Register is called by the client after the relay upload succeeded. The
// manifest signature is verified before the registry record is written.
func (c *UploadComponent) Register(ctx context.Context, req types.RegisterUploadReq) (*types.RegisterUploadResp, error) {
	manifestJSON, err := json.Marshal(req.Manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := suichain.VerifyPersonalMessage(req.UploaderAddress, manifestJSON, req.SignedManifest); err != nil {
		return nil, fmt.Errorf("upload registration rejected: %w", err)
	}

	license := req.License
	if license == "" {
		license = req.Manifest.License
	}
	if license == "" {
		license = "unknown"
	}
	name := req.Manifest.Name
	if name == "" {
		name = "untitled"
	}
	adapter := database.Adapter{
		Name:           name,
		Description:    req.Manifest.Description,
		Version:        req.Manifest.Version,
		Task:           req.Manifest.Task,
		Language:       req.Manifest.Language,
		License:        license,
		CreatorAddress: req.UploaderAddress,
		ManifestHash:   req.ManifestHash,
		WalrusCID:      req.CID,
		Signature:      req.SignedManifest,
		Verified:       true,
		Versions: []types.AdapterVersion{{
			Version:      req.Manifest.Version,
			WalrusCID:    req.CID,
			ManifestHash: req.ManifestHash,
			CreatedAt:    time.Now().UTC(),
		}},
	}
	if len(req.Manifest.BaseModels) > 0 {
		adapter.BaseModel = req.Manifest.BaseModels[0]
	}
	if len(req.Manifest.Authors) > 0 {
		adapter.Creator = req.Manifest.Authors[0].Name
	}
	created, err := c.as.Create(ctx, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to register uploaded adapter: %w", err)
	}

	return &types.RegisterUploadResp{
		OK:                  true,
		AdapterID:           created.ID,
		PreparedTransaction: preparedPublishCall(c.cfg.Sui.PackageID, req.CID, req.ManifestHash, license),
	}, nil
}

func (c *UploadComponent) BlobInfo(ctx context.Context, cid string) (json.RawMessage, error) {
	raw, err := c.relay.BlobInfo(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob info for %s: %w", cid, err)
	}
	return raw, nil
}

// preparedPublishCall describes the move call the client wallet signs to
// publish the adapter under its own address.
func preparedPublishCall(packageID, cid, manifestHash, license string) string {
	call := map[string]any{
		"target":    packageID + "::adapter::publish_adapter",
		"arguments": []string{cid, manifestHash, license},
	}
	raw, _ := json.Marshal(call)
	return string(raw)
}
