package component

import (
	"context"
	"testing"

	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/stretchr/testify/require"
)

func newTestAdapterComponent(t *testing.T) (*AdapterComponent, *fakeAdapterStore) {
	t.Helper()
	as := newFakeAdapterStore()
	return &AdapterComponent{as: as, cfg: &config.Config{}}, as
}

func TestAdapterComponent_Create(t *testing.T) {
	c, _ := newTestAdapterComponent(t)

	adapter, err := c.Create(context.TODO(), types.CreateAdapterReq{
		Name:         "medical-qa-lora",
		Version:      "1.0.0",
		ManifestHash: "hash-a",
		WalrusCID:    "cid-a",
		Creator:      "alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, adapter.ID)
	require.Equal(t, "medical-qa-lora", adapter.Name)
	require.Len(t, adapter.Versions, 1)
	require.Equal(t, "cid-a", adapter.Versions[0].WalrusCID)
}

func TestAdapterComponent_CreateWithVersionHistory(t *testing.T) {
	c, _ := newTestAdapterComponent(t)

	history := []types.AdapterVersion{
		{Version: "0.9.0", WalrusCID: "cid-old", ManifestHash: "hash-old"},
		{Version: "1.0.0", WalrusCID: "cid-a", ManifestHash: "hash-a"},
	}
	adapter, err := c.Create(context.TODO(), types.CreateAdapterReq{
		Name:         "medical-qa-lora",
		Version:      "1.0.0",
		ManifestHash: "hash-a",
		WalrusCID:    "cid-a",
		Versions:     history,
	})
	require.NoError(t, err)
	require.Len(t, adapter.Versions, 2)
	require.Equal(t, "0.9.0", adapter.Versions[0].Version)
	require.Equal(t, "cid-a", adapter.Versions[1].WalrusCID)
}

func TestAdapterComponent_CreateMissingManifestHash(t *testing.T) {
	c, _ := newTestAdapterComponent(t)

	_, err := c.Create(context.TODO(), types.CreateAdapterReq{
		Name:      "no-hash",
		WalrusCID: "cid-b",
	})
	require.ErrorIs(t, err, errorx.ErrReqParamMissing)
}

func TestAdapterComponent_Download(t *testing.T) {
	c, as := newTestAdapterComponent(t)
	ctx := context.TODO()

	created, err := as.Create(ctx, database.Adapter{
		Name:         "summarizer",
		ManifestHash: "hash-c",
		WalrusCID:    "cid-c",
	})
	require.NoError(t, err)

	resp, err := c.Download(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "cid-c", resp.WalrusCID)
	require.Equal(t, int64(1), resp.Downloads)
	// no mirror configured
	require.Empty(t, resp.DownloadURL)

	resp, err = c.Download(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Downloads)
}

func TestAdapterComponent_UpdateListingOwnerOnly(t *testing.T) {
	c, as := newTestAdapterComponent(t)
	ctx := context.TODO()

	created, err := as.Create(ctx, database.Adapter{
		Name:           "translator",
		ManifestHash:   "hash-d",
		WalrusCID:      "cid-d",
		CreatorAddress: "0xowner",
		Price:          100,
	})
	require.NoError(t, err)

	newPrice := int64(250)
	_, err = c.UpdateListing(ctx, created.ID, types.UpdateListingReq{
		CurrentAddress: "0xintruder",
		Price:          &newPrice,
	})
	require.ErrorIs(t, err, errorx.ErrForbidden)

	updated, err := c.UpdateListing(ctx, created.ID, types.UpdateListingReq{
		CurrentAddress: "0xowner",
		Price:          &newPrice,
	})
	require.NoError(t, err)
	require.Equal(t, int64(250), updated.Price)
	require.False(t, updated.IsPrivate)
}

func TestAdapterComponent_AppendVersion(t *testing.T) {
	c, as := newTestAdapterComponent(t)
	ctx := context.TODO()

	created, err := as.Create(ctx, database.Adapter{
		Name:         "reranker",
		Version:      "1.0.0",
		ManifestHash: "hash-e",
		WalrusCID:    "cid-e",
		Versions: []types.AdapterVersion{
			{Version: "1.0.0", WalrusCID: "cid-e", ManifestHash: "hash-e"},
		},
	})
	require.NoError(t, err)

	updated, err := c.AppendVersion(ctx, created.ID, types.AppendVersionReq{
		Version:      "1.1.0",
		WalrusCID:    "cid-e2",
		ManifestHash: "hash-e2",
		Changelog:    "retrained on larger corpus",
	})
	require.NoError(t, err)
	require.Equal(t, "1.1.0", updated.Version)
	require.Equal(t, "cid-e2", updated.WalrusCID)
	require.Len(t, updated.Versions, 2)

	versions, err := c.Versions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
}

func TestAdapterComponent_GetNotFound(t *testing.T) {
	c, _ := newTestAdapterComponent(t)

	_, err := c.Get(context.TODO(), "missing")
	require.ErrorIs(t, err, errorx.ErrDatabaseNoRows)
}
