package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/tests"
	"github.com/mindshard/mindshard-server/common/types"
)

func TestAdapterStore_CreateAndFind(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	created, err := store.Create(ctx, database.Adapter{
		Name:         "llama-med-lora",
		Creator:      "alice",
		BaseModel:    "llama-3-8b",
		ManifestHash: "ab12",
		WalrusCID:    "cid-1",
		Verified:     true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, int64(0), created.Downloads)
	require.Equal(t, int64(0), created.Purchases)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "llama-med-lora", found.Name)
	require.True(t, found.Verified)

	byHash, err := store.FindByManifestHash(ctx, "ab12")
	require.NoError(t, err)
	require.Equal(t, created.ID, byHash.ID)

	_, err = store.FindByID(ctx, "no-such-id")
	require.Error(t, err)
	require.True(t, errors.Is(err, errorx.ErrDatabaseNoRows))
}

func TestAdapterStore_CreateDuplicateManifestHash(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	_, err := store.Create(ctx, database.Adapter{
		Name: "a1", ManifestHash: "dup", WalrusCID: "cid-1",
	})
	require.NoError(t, err)

	_, err = store.Create(ctx, database.Adapter{
		Name: "a2", ManifestHash: "dup", WalrusCID: "cid-2",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, errorx.ErrDatabaseDuplicateKey))
}

func TestAdapterStore_List(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	seed := []database.Adapter{
		{Name: "Medical QA", Creator: "alice", BaseModel: "llama-3-8b", Task: "qa",
			ManifestHash: "h1", WalrusCID: "c1", Downloads: 10, Price: 500},
		{Name: "code-helper", Creator: "bob", BaseModel: "mistral-7b", Task: "codegen",
			ManifestHash: "h2", WalrusCID: "c2", Downloads: 30, Price: 100},
		{Name: "summarizer", Creator: "carol", BaseModel: "llama-3-8b", Task: "summarization",
			Description: "medical text summaries",
			ManifestHash: "h3", WalrusCID: "c3", Downloads: 20, Price: 900},
	}
	for _, a := range seed {
		_, err := store.Create(ctx, a)
		require.NoError(t, err)
	}

	// default sort is popularity
	all, err := store.List(ctx, types.ListAdapterReq{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "code-helper", all[0].Name)

	// case-insensitive substring match across name, creator, base model
	// and description
	meds, err := store.List(ctx, types.ListAdapterReq{Query: "MEDICAL"})
	require.NoError(t, err)
	require.Len(t, meds, 2)

	byCreator, err := store.List(ctx, types.ListAdapterReq{Query: "bob"})
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	require.Equal(t, "code-helper", byCreator[0].Name)

	llamas, err := store.List(ctx, types.ListAdapterReq{BaseModel: "llama-3-8b"})
	require.NoError(t, err)
	require.Len(t, llamas, 2)

	qa, err := store.List(ctx, types.ListAdapterReq{Task: "qa"})
	require.NoError(t, err)
	require.Len(t, qa, 1)

	cheapFirst, err := store.List(ctx, types.ListAdapterReq{Sort: types.AdapterSortPriceLow})
	require.NoError(t, err)
	require.Equal(t, int64(100), cheapFirst[0].Price)

	dearFirst, err := store.List(ctx, types.ListAdapterReq{Sort: types.AdapterSortPriceHigh})
	require.NoError(t, err)
	require.Equal(t, int64(900), dearFirst[0].Price)

	none, err := store.List(ctx, types.ListAdapterReq{Query: "nonexistent"})
	require.NoError(t, err)
	require.Len(t, none, 0)
}

func TestAdapterStore_ListNewestFirst(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	seed := []database.Adapter{
		{Name: "oldest", ManifestHash: "n1", WalrusCID: "c1"},
		{Name: "middle", ManifestHash: "n2", WalrusCID: "c2"},
		{Name: "newest", ManifestHash: "n3", WalrusCID: "c3"},
	}
	for i, a := range seed {
		created, err := store.Create(ctx, a)
		require.NoError(t, err)
		// current_timestamp is fixed inside the test transaction, spread the
		// rows out by hand
		_, err = db.Core.ExecContext(ctx,
			`UPDATE adapters SET created_at = NOW() - make_interval(days => ?) WHERE id = ?`,
			len(seed)-i, created.ID)
		require.NoError(t, err)
	}

	newest, err := store.List(ctx, types.ListAdapterReq{Sort: types.AdapterSortNewest})
	require.NoError(t, err)
	require.Len(t, newest, 3)
	require.Equal(t, []string{"newest", "middle", "oldest"},
		[]string{newest[0].Name, newest[1].Name, newest[2].Name})
	for i := 1; i < len(newest); i++ {
		require.False(t, newest[i].CreatedAt.After(newest[i-1].CreatedAt))
	}
}

func TestAdapterStore_IncrementDownloads(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	created, err := store.Create(ctx, database.Adapter{
		Name: "a", ManifestHash: "h1", WalrusCID: "c1",
	})
	require.NoError(t, err)

	n, err := store.IncrementDownloads(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	n, err = store.IncrementDownloads(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	_, err = store.IncrementDownloads(ctx, "missing")
	require.Error(t, err)
}

func TestAdapterStore_RecordPurchase(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	created, err := store.Create(ctx, database.Adapter{
		Name: "a", ManifestHash: "h1", WalrusCID: "c1", Price: 250,
	})
	require.NoError(t, err)

	p, err := store.RecordPurchase(ctx, database.Purchase{
		AdapterID: created.ID, BuyerAddress: "0xbuyer", Price: 250, TxDigest: "d1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), found.Purchases)

	// same buyer buying twice hits the unique index and must not bump
	// the counter
	_, err = store.RecordPurchase(ctx, database.Purchase{
		AdapterID: created.ID, BuyerAddress: "0xbuyer", Price: 250, TxDigest: "d2",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, errorx.ErrDatabaseDuplicateKey))
	found, err = store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), found.Purchases)

	exists, err := database.NewPurchaseStoreWithDB(db).Exists(ctx, created.ID, "0xbuyer")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestAdapterStore_UpdateListing(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	created, err := store.Create(ctx, database.Adapter{
		Name: "a", ManifestHash: "h1", WalrusCID: "c1", Price: 100,
	})
	require.NoError(t, err)

	price := int64(9000)
	private := true
	updated, err := store.UpdateListing(ctx, created.ID, &price, &private)
	require.NoError(t, err)
	require.Equal(t, int64(9000), updated.Price)
	require.True(t, updated.IsPrivate)

	// nil fields leave values untouched
	updated, err = store.UpdateListing(ctx, created.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(9000), updated.Price)
	require.True(t, updated.IsPrivate)
}

func TestAdapterStore_AppendVersion(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewAdapterStoreWithDB(db)
	created, err := store.Create(ctx, database.Adapter{
		Name: "a", Version: "1.0.0", ManifestHash: "h1", WalrusCID: "c1",
		Versions: []types.AdapterVersion{
			{Version: "1.0.0", WalrusCID: "c1", ManifestHash: "h1"},
		},
	})
	require.NoError(t, err)

	updated, err := store.AppendVersion(ctx, created.ID, types.AdapterVersion{
		Version: "1.1.0", WalrusCID: "c2", ManifestHash: "h2",
	})
	require.NoError(t, err)
	require.Len(t, updated.Versions, 2)
	require.Equal(t, "1.1.0", updated.Version)
	require.Equal(t, "c2", updated.WalrusCID)

	// replaying the identical entry is a no-op
	updated, err = store.AppendVersion(ctx, created.ID, types.AdapterVersion{
		Version: "1.1.0", WalrusCID: "c2", ManifestHash: "h2",
	})
	require.NoError(t, err)
	require.Len(t, updated.Versions, 2)

	// an existing version string with a different payload is rejected
	_, err = store.AppendVersion(ctx, created.ID, types.AdapterVersion{
		Version: "1.1.0", WalrusCID: "c-other", ManifestHash: "h2",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, errorx.ErrVersionConflict))
}
