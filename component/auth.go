package component

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
	"golang.org/x/crypto/bcrypt"
)

type AuthComponent struct {
	us  database.UserStore
	cfg *config.Config
}

func NewAuthComponent(cfg *config.Config) *AuthComponent {
	return &AuthComponent{
		us:  database.NewUserStore(),
		cfg: cfg,
	}
}

func (c *AuthComponent) Register(ctx context.Context, req types.RegisterUserReq) (*types.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := c.us.Create(ctx, database.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		SuiAddress:   req.SuiAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user '%s': %w", req.Username, err)
	}
	return toUserResp(user), nil
}

func (c *AuthComponent) Login(ctx context.Context, req types.LoginReq) (*types.LoginResp, error) {
	user, err := c.us.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errorx.ErrDatabaseNoRows) {
			return nil, errorx.InvalidCredentials(
				fmt.Errorf("unknown user or wrong password"), nil)
		}
		return nil, fmt.Errorf("failed to find user '%s': %w", req.Email, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errorx.InvalidCredentials(
			fmt.Errorf("unknown user or wrong password"), nil)
	}

	expireAt := time.Now().Add(time.Duration(c.cfg.JWT.ValidHour) * time.Hour)
	claims := types.JWTClaims{
		CurrentUser: user.Username,
		SuiAddress:  user.SuiAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "mindshard-server",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.JWT.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign jwt: %w", err)
	}
	return &types.LoginResp{
		Token:    signed,
		ExpireAt: expireAt,
		User:     *toUserResp(user),
	}, nil
}

// UpdateWallet links a Sui address to the account. JWTs issued before the
// change keep the old address until the next login.
func (c *AuthComponent) UpdateWallet(ctx context.Context, username string, req types.UpdateWalletReq) (*types.User, error) {
	holder, err := c.us.FindBySuiAddress(ctx, req.SuiAddress)
	if err != nil && !errors.Is(err, errorx.ErrDatabaseNoRows) {
		return nil, fmt.Errorf("failed to check wallet owner: %w", err)
	}
	if holder != nil && holder.Username != username {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("address %s is already linked to another account", req.SuiAddress),
			errorx.Ctx().Set("sui_address", req.SuiAddress))
	}
	if err := c.us.UpdateSuiAddress(ctx, username, req.SuiAddress); err != nil {
		return nil, fmt.Errorf("failed to update wallet for '%s': %w", username, err)
	}
	user, err := c.us.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user '%s': %w", username, err)
	}
	return toUserResp(user), nil
}

func (c *AuthComponent) Me(ctx context.Context, username string) (*types.User, error) {
	user, err := c.us.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user '%s': %w", username, err)
	}
	return toUserResp(user), nil
}

func toUserResp(u *database.User) *types.User {
	return &types.User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		SuiAddress: u.SuiAddress,
		CreatedAt:  u.CreatedAt,
	}
}
