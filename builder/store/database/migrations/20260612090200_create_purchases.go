package migrations

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Purchase struct {
	ID           string    `bun:",pk"`
	AdapterID    string    `bun:",notnull"`
	BuyerAddress string    `bun:",notnull"`
	Price        int64     `bun:",notnull,default:0"`
	TxDigest     string    `bun:",nullzero"`
	CreatedAt    time.Time `bun:",notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:",notnull,default:current_timestamp"`
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, Purchase{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*Purchase)(nil)).
			Index("idx_purchases_adapter_buyer").
			Column("adapter_id", "buyer_address").
			Unique().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, Purchase{})
	})
}
