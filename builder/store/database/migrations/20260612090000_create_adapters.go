package migrations

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Adapter struct {
	ID             string    `bun:",pk"`
	Name           string    `bun:",notnull"`
	Description    string    `bun:",nullzero"`
	Version        string    `bun:",nullzero"`
	BaseModel      string    `bun:",nullzero"`
	Task           string    `bun:",nullzero"`
	Language       string    `bun:",nullzero"`
	License        string    `bun:",nullzero"`
	Creator        string    `bun:",nullzero"`
	CreatorAddress string    `bun:",nullzero"`
	ManifestHash   string    `bun:",notnull,unique"`
	WalrusCID      string    `bun:"walrus_cid,notnull"`
	Signature      string    `bun:",nullzero"`
	Downloads      int64     `bun:",notnull,default:0"`
	Purchases      int64     `bun:",notnull,default:0"`
	Verified       bool      `bun:",notnull,default:false"`
	Price          int64     `bun:",notnull,default:0"`
	IsPrivate      bool      `bun:",notnull,default:false"`
	Tags           []string  `bun:",type:jsonb"`
	Versions       []any     `bun:",type:jsonb"`
	DeletedAt      time.Time `bun:",soft_delete,nullzero"`
	CreatedAt      time.Time `bun:",notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:",notnull,default:current_timestamp"`
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, Adapter{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*Adapter)(nil)).
			Index("idx_adapters_base_model").
			Column("base_model").
			Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*Adapter)(nil)).
			Index("idx_adapters_downloads").
			Column("downloads").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, Adapter{})
	})
}
