package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
)

// Adapter is the registry row for a published LoRA adapter. The id is
// immutable once assigned, and manifest_hash carries a unique index: it is
// the mint idempotency key.
type Adapter struct {
	ID             string                 `bun:",pk" json:"id"`
	Name           string                 `bun:",notnull" json:"name"`
	Description    string                 `bun:",nullzero" json:"description"`
	Version        string                 `bun:",nullzero" json:"version"`
	BaseModel      string                 `bun:",nullzero" json:"base_model"`
	Task           string                 `bun:",nullzero" json:"task"`
	Language       string                 `bun:",nullzero" json:"language"`
	License        string                 `bun:",nullzero" json:"license"`
	Creator        string                 `bun:",nullzero" json:"creator"`
	CreatorAddress string                 `bun:",nullzero" json:"creator_address"`
	ManifestHash   string                 `bun:",notnull,unique" json:"manifest_hash"`
	WalrusCID      string                 `bun:"walrus_cid,notnull" json:"walrus_cid"`
	Signature      string                 `bun:",nullzero" json:"signature"`
	Downloads      int64                  `bun:",notnull,default:0" json:"downloads"`
	Purchases      int64                  `bun:",notnull,default:0" json:"purchases"`
	Verified       bool                   `bun:",notnull,default:false" json:"verified"`
	Price          int64                  `bun:",notnull,default:0" json:"price"`
	IsPrivate      bool                   `bun:",notnull,default:false" json:"is_private"`
	Tags           []string               `bun:",type:jsonb" json:"tags"`
	Versions       []types.AdapterVersion `bun:",type:jsonb" json:"versions"`
	DeletedAt      time.Time              `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
	times
}

type AdapterStore interface {
	Create(ctx context.Context, input Adapter) (*Adapter, error)
	FindByID(ctx context.Context, id string) (*Adapter, error)
	FindByManifestHash(ctx context.Context, hash string) (*Adapter, error)
	List(ctx context.Context, req types.ListAdapterReq) ([]Adapter, error)
	IncrementDownloads(ctx context.Context, id string) (int64, error)
	RecordPurchase(ctx context.Context, p Purchase) (*Purchase, error)
	UpdateListing(ctx context.Context, id string, price *int64, isPrivate *bool) (*Adapter, error)
	AppendVersion(ctx context.Context, id string, v types.AdapterVersion) (*Adapter, error)
}

type adapterStoreImpl struct {
	db *DB
}

func NewAdapterStore() AdapterStore {
	return &adapterStoreImpl{
		db: defaultDB,
	}
}

func NewAdapterStoreWithDB(db *DB) AdapterStore {
	return &adapterStoreImpl{
		db: db,
	}
}

func (s *adapterStoreImpl) Create(ctx context.Context, input Adapter) (*Adapter, error) {
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}
	if input.Versions == nil {
		input.Versions = []types.AdapterVersion{}
	}
	res, err := s.db.Core.NewInsert().Model(&input).Exec(ctx, &input)
	if err := assertAffectedOneRow(res, err); err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("manifest_hash", input.ManifestHash))
	}
	return &input, nil
}

func (s *adapterStoreImpl) FindByID(ctx context.Context, id string) (*Adapter, error) {
	adapter := new(Adapter)
	err := s.db.Core.NewSelect().Model(adapter).
		Where("adapter.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("adapter_id", id))
	}
	return adapter, nil
}

func (s *adapterStoreImpl) FindByManifestHash(ctx context.Context, hash string) (*Adapter, error) {
	adapter := new(Adapter)
	err := s.db.Core.NewSelect().Model(adapter).
		Where("manifest_hash = ?", hash).
		Scan(ctx)
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("manifest_hash", hash))
	}
	return adapter, nil
}

func (s *adapterStoreImpl) List(ctx context.Context, req types.ListAdapterReq) ([]Adapter, error) {
	adapters := []Adapter{}
	q := s.db.Core.NewSelect().Model(&adapters)

	if req.Query != "" {
		pattern := "%" + req.Query + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereOr("name ILIKE ?", pattern).
				WhereOr("creator ILIKE ?", pattern).
				WhereOr("base_model ILIKE ?", pattern).
				WhereOr("description ILIKE ?", pattern)
		})
	}
	if req.BaseModel != "" {
		q = q.Where("base_model = ?", req.BaseModel)
	}
	if req.Task != "" {
		q = q.Where("task = ?", req.Task)
	}

	switch req.Sort {
	case types.AdapterSortNewest:
		q = q.Order("created_at DESC")
	case types.AdapterSortPriceLow:
		q = q.Order("price ASC")
	case types.AdapterSortPriceHigh:
		q = q.Order("price DESC")
	default:
		// popularity is also the fallback for unrecognized sort values
		q = q.Order("downloads DESC").Order("purchases DESC")
	}

	if req.Per > 0 {
		page := req.Page
		if page < 1 {
			page = 1
		}
		q = q.Limit(req.Per).Offset(req.Per * (page - 1))
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errorx.HandleDBError(err, nil)
	}
	return adapters, nil
}

func (s *adapterStoreImpl) IncrementDownloads(ctx context.Context, id string) (int64, error) {
	var downloads int64
	err := s.db.Core.NewUpdate().Model(&Adapter{}).
		Set("downloads = downloads + 1").
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Returning("downloads").
		Scan(ctx, &downloads)
	if err != nil {
		return 0, errorx.HandleDBError(err, errorx.Ctx().Set("adapter_id", id))
	}
	return downloads, nil
}

// RecordPurchase inserts the purchase row and bumps the adapter counter in
// one transaction.
func (s *adapterStoreImpl) RecordPurchase(ctx context.Context, p Purchase) (*Purchase, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := assertAffectedOneRow(tx.NewInsert().Model(&p).Exec(ctx)); err != nil {
			return err
		}
		return assertAffectedOneRow(tx.Exec("update adapters set purchases=COALESCE(purchases, 0)+1 where id=?", p.AdapterID))
	})
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("adapter_id", p.AdapterID))
	}
	return &p, nil
}

func (s *adapterStoreImpl) UpdateListing(ctx context.Context, id string, price *int64, isPrivate *bool) (*Adapter, error) {
	q := s.db.Core.NewUpdate().Model(&Adapter{}).
		Set("updated_at = current_timestamp").
		Where("id = ?", id)
	if price != nil {
		q = q.Set("price = ?", *price)
	}
	if isPrivate != nil {
		q = q.Set("is_private = ?", *isPrivate)
	}
	if err := assertAffectedOneRow(q.Exec(ctx)); err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("adapter_id", id))
	}
	return s.FindByID(ctx, id)
}

// AppendVersion adds a history entry. Re-publishing an existing version
// string with a different CID or hash is rejected; version entries are
// append-only.
func (s *adapterStoreImpl) AppendVersion(ctx context.Context, id string, v types.AdapterVersion) (*Adapter, error) {
	var adapter *Adapter
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		adapter = new(Adapter)
		err := tx.NewSelect().Model(adapter).Where("adapter.id = ?", id).For("UPDATE").Scan(ctx)
		if err != nil {
			return err
		}
		for _, existing := range adapter.Versions {
			if existing.Version == v.Version {
				if existing.WalrusCID != v.WalrusCID || existing.ManifestHash != v.ManifestHash {
					return fmt.Errorf("version %q already recorded with a different cid or hash, %w", v.Version, errorx.ErrVersionConflict.CustomError())
				}
				// identical replay, nothing to do
				return nil
			}
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now().UTC()
		}
		adapter.Versions = append(adapter.Versions, v)
		adapter.Version = v.Version
		adapter.WalrusCID = v.WalrusCID
		res, err := tx.NewUpdate().Model(adapter).
			Column("versions", "version", "walrus_cid").
			Set("updated_at = current_timestamp").
			Where("id = ?", id).
			Exec(ctx)
		return assertAffectedOneRow(res, err)
	})
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("adapter_id", id))
	}
	return adapter, nil
}
