package migrations

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	ID           string    `bun:",pk"`
	Username     string    `bun:",notnull,unique"`
	Email        string    `bun:",nullzero,unique"`
	PasswordHash string    `bun:",nullzero"`
	SuiAddress   string    `bun:",nullzero"`
	Avatar       string    `bun:",nullzero"`
	CreatedAt    time.Time `bun:",notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:",notnull,default:current_timestamp"`
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, User{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*User)(nil)).
			Index("idx_users_sui_address").
			Column("sui_address").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, User{})
	})
}
