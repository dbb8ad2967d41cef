package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/mindshard/mindshard-server/common/errorx"
)

type User struct {
	ID           string `bun:",pk" json:"id"`
	Username     string `bun:",notnull,unique" json:"username"`
	Email        string `bun:",nullzero,unique" json:"email"`
	PasswordHash string `bun:",nullzero" json:"-"`
	SuiAddress   string `bun:",nullzero" json:"sui_address"`
	Avatar       string `bun:",nullzero" json:"avatar"`
	times
}

type UserStore interface {
	Create(ctx context.Context, input User) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindBySuiAddress(ctx context.Context, address string) (*User, error)
	UpdateSuiAddress(ctx context.Context, username, address string) error
}

type userStoreImpl struct {
	db *DB
}

func NewUserStore() UserStore {
	return &userStoreImpl{
		db: defaultDB,
	}
}

func NewUserStoreWithDB(db *DB) UserStore {
	return &userStoreImpl{
		db: db,
	}
}

func (s *userStoreImpl) Create(ctx context.Context, input User) (*User, error) {
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	res, err := s.db.Core.NewInsert().Model(&input).Exec(ctx, &input)
	if err := assertAffectedOneRow(res, err); err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("username", input.Username))
	}
	return &input, nil
}

func (s *userStoreImpl) FindByUsername(ctx context.Context, username string) (*User, error) {
	user := new(User)
	err := s.db.Core.NewSelect().Model(user).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("username", username))
	}
	return user, nil
}

func (s *userStoreImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := s.db.Core.NewSelect().Model(user).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("email", email))
	}
	return user, nil
}

func (s *userStoreImpl) FindBySuiAddress(ctx context.Context, address string) (*User, error) {
	user := new(User)
	err := s.db.Core.NewSelect().Model(user).
		Where("sui_address = ?", address).
		Scan(ctx)
	if err != nil {
		return nil, errorx.HandleDBError(err, errorx.Ctx().Set("sui_address", address))
	}
	return user, nil
}

func (s *userStoreImpl) UpdateSuiAddress(ctx context.Context, username, address string) error {
	res, err := s.db.Core.NewUpdate().Model(&User{}).
		Set("sui_address = ?", address).
		Set("updated_at = current_timestamp").
		Where("username = ?", username).
		Exec(ctx)
	if err := assertAffectedOneRow(res, err); err != nil {
		return errorx.HandleDBError(err, errorx.Ctx().Set("username", username))
	}
	return nil
}
