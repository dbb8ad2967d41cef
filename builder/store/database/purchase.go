package database

import (
	"context"

	"github.com/mindshard/mindshard-server/common/errorx"
)

type Purchase struct {
	ID           string `bun:",pk" json:"id"`
	AdapterID    string `bun:",notnull" json:"adapter_id"`
	BuyerAddress string `bun:",notnull" json:"buyer_address"`
	Price        int64  `bun:",notnull,default:0" json:"price"`
	TxDigest     string `bun:",nullzero" json:"tx_digest"`
	times
}

type PurchaseStore interface {
	FindByBuyer(ctx context.Context, buyerAddress string) ([]Purchase, error)
	Exists(ctx context.Context, adapterID, buyerAddress string) (bool, error)
}

type purchaseStoreImpl struct {
	db *DB
}

func NewPurchaseStore() PurchaseStore {
	return &purchaseStoreImpl{
		db: defaultDB,
	}
}

func NewPurchaseStoreWithDB(db *DB) PurchaseStore {
	return &purchaseStoreImpl{
		db: db,
	}
}

func (s *purchaseStoreImpl) FindByBuyer(ctx context.Context, buyerAddress string) ([]Purchase, error) {
	purchases := []Purchase{}
	err := s.db.Core.NewSelect().Model(&purchases).
		Where("buyer_address = ?", buyerAddress).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("buyer_address", buyerAddress))
	}
	return purchases, nil
}

func (s *purchaseStoreImpl) Exists(ctx context.Context, adapterID, buyerAddress string) (bool, error) {
	exists, err := s.db.Core.NewSelect().Model(&Purchase{}).
		Where("adapter_id = ?", adapterID).
		Where("buyer_address = ?", buyerAddress).
		Exists(ctx)
	if err != nil {
		return false, errorx.HandleDBError(err, nil)
	}
	return exists, nil
}
