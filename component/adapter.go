package component

import (
	"context"
	"fmt"
	"time"

	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/builder/store/s3"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
)

const mirrorURLExpiry = 15 * time.Minute

type AdapterComponent struct {
	as  database.AdapterStore
	s3  s3.Client
	cfg *config.Config
}

func NewAdapterComponent(cfg *config.Config) (*AdapterComponent, error) {
	c := &AdapterComponent{
		as:  database.NewAdapterStore(),
		cfg: cfg,
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

func (c *AdapterComponent) Create(ctx context.Context, req types.CreateAdapterReq) (*types.Adapter, error) {
	if req.ManifestHash == "" {
		return nil, errorx.ReqParamMissing(
			fmt.Errorf("manifest_hash is required"),
			errorx.Ctx().Set("param", "manifest_hash"))
	}
	versions := req.Versions
	if len(versions) == 0 {
		versions = []types.AdapterVersion{{
			Version:      req.Version,
			WalrusCID:    req.WalrusCID,
			ManifestHash: req.ManifestHash,
			CreatedAt:    time.Now().UTC(),
		}}
	}
	adapter, err := c.as.Create(ctx, database.Adapter{
		Name:           req.Name,
		Description:    req.Description,
		Version:        req.Version,
		BaseModel:      req.BaseModel,
		Task:           req.Task,
		Language:       req.Language,
		License:        req.License,
		Creator:        req.Creator,
		CreatorAddress: req.CreatorAddress,
		ManifestHash:   req.ManifestHash,
		WalrusCID:      req.WalrusCID,
		Signature:      req.Signature,
		Price:          req.Price,
		IsPrivate:      req.IsPrivate,
		Tags:           req.Tags,
		// verification pipeline not built yet, records are trusted on entry
		Verified: true,
		Versions: versions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter '%s': %w", req.Name, err)
	}
	return toAdapterResp(adapter), nil
}

func (c *AdapterComponent) Get(ctx context.Context, id string) (*types.Adapter, error) {
	adapter, err := c.as.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find adapter by id '%s': %w", id, err)
	}
	return toAdapterResp(adapter), nil
}

func (c *AdapterComponent) List(ctx context.Context, req types.ListAdapterReq) ([]types.Adapter, error) {
	adapters, err := c.as.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list adapters: %w", err)
	}
	resp := make([]types.Adapter, 0, len(adapters))
	for i := range adapters {
		resp = append(resp, *toAdapterResp(&adapters[i]))
	}
	return resp, nil
}

// Download bumps the download counter and hands back the Walrus CID, plus a
// presigned mirror URL when the bundle was mirrored to object storage.
func (c *AdapterComponent) Download(ctx context.Context, id string) (*types.DownloadAdapterResp, error) {
	adapter, err := c.as.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find adapter by id '%s': %w", id, err)
	}
	downloads, err := c.as.IncrementDownloads(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count download of adapter '%s': %w", id, err)
	}
	resp := &types.DownloadAdapterResp{
		WalrusCID: adapter.WalrusCID,
		Downloads: downloads,
	}
	if c.s3 != nil {
		mirrorURL, err := s3.DownloadURL(ctx, c.s3, c.cfg.S3.Bucket,
			"bundles/"+adapter.ManifestHash+".zip", mirrorURLExpiry)
		if err == nil {
			resp.DownloadURL = mirrorURL
		}
	}
	return resp, nil
}

// UpdateListing changes price or visibility. Only the creator address may
// modify a listing.
func (c *AdapterComponent) UpdateListing(ctx context.Context, id string, req types.UpdateListingReq) (*types.Adapter, error) {
	adapter, err := c.as.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find adapter by id '%s': %w", id, err)
	}
	if adapter.CreatorAddress != "" && adapter.CreatorAddress != req.CurrentAddress {
		return nil, errorx.Forbidden(
			fmt.Errorf("only the creator can modify the listing"),
			errorx.Ctx().Set("adapter_id", id))
	}
	updated, err := c.as.UpdateListing(ctx, id, req.Price, req.IsPrivate)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing of adapter '%s': %w", id, err)
	}
	return toAdapterResp(updated), nil
}

func (c *AdapterComponent) AppendVersion(ctx context.Context, id string, req types.AppendVersionReq) (*types.Adapter, error) {
	updated, err := c.as.AppendVersion(ctx, id, types.AdapterVersion{
		Version:      req.Version,
		WalrusCID:    req.WalrusCID,
		ManifestHash: req.ManifestHash,
		Changelog:    req.Changelog,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append version to adapter '%s': %w", id, err)
	}
	return toAdapterResp(updated), nil
}

func (c *AdapterComponent) Versions(ctx context.Context, id string) ([]types.AdapterVersion, error) {
	adapter, err := c.as.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find adapter by id '%s': %w", id, err)
	}
	return adapter.Versions, nil
}

func toAdapterResp(a *database.Adapter) *types.Adapter {
	return &types.Adapter{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Version:        a.Version,
		BaseModel:      a.BaseModel,
		Task:           a.Task,
		Language:       a.Language,
		License:        a.License,
		Creator:        a.Creator,
		CreatorAddress: a.CreatorAddress,
		ManifestHash:   a.ManifestHash,
		WalrusCID:      a.WalrusCID,
		Signature:      a.Signature,
		Downloads:      a.Downloads,
		Purchases:      a.Purchases,
		Verified:       a.Verified,
		Price:          a.Price,
		IsPrivate:      a.IsPrivate,
		Tags:           a.Tags,
		Versions:       a.Versions,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
