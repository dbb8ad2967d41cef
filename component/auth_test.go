package component

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/stretchr/testify/require"
)

func newTestAuthComponent(t *testing.T) (*AuthComponent, *fakeUserStore) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.SigningKey = "test-signing-key"
	cfg.JWT.ValidHour = 24
	us := newFakeUserStore()
	return &AuthComponent{us: us, cfg: cfg}, us
}

func TestAuthComponent_RegisterAndLogin(t *testing.T) {
	c, _ := newTestAuthComponent(t)
	ctx := context.TODO()

	user, err := c.Register(ctx, types.RegisterUserReq{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "s3cret-pass",
		SuiAddress: "0xabc",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, user.ID)

	resp, err := c.Login(ctx, types.LoginReq{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice", resp.User.Username)
	require.True(t, resp.ExpireAt.After(time.Now()))

	claims := &types.JWTClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-signing-key"), nil
	})
	require.NoError(t, err)
	require.Equal(t, "alice", claims.CurrentUser)
	require.Equal(t, "0xabc", claims.SuiAddress)
}

func TestAuthComponent_LoginWrongPassword(t *testing.T) {
	c, _ := newTestAuthComponent(t)
	ctx := context.TODO()

	_, err := c.Register(ctx, types.RegisterUserReq{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "correct-pass",
	})
	require.NoError(t, err)

	_, err = c.Login(ctx, types.LoginReq{
		Email:    "bob@example.com",
		Password: "wrong-pass",
	})
	require.ErrorIs(t, err, errorx.ErrInvalidCredentials)
}

func TestAuthComponent_LoginUnknownEmail(t *testing.T) {
	c, _ := newTestAuthComponent(t)

	_, err := c.Login(context.TODO(), types.LoginReq{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, errorx.ErrInvalidCredentials)
}

func TestAuthComponent_RegisterDuplicateUsername(t *testing.T) {
	c, _ := newTestAuthComponent(t)
	ctx := context.TODO()

	_, err := c.Register(ctx, types.RegisterUserReq{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "some-pass-1",
	})
	require.NoError(t, err)

	_, err = c.Register(ctx, types.RegisterUserReq{
		Username: "carol",
		Email:    "carol2@example.com",
		Password: "some-pass-2",
	})
	require.ErrorIs(t, err, errorx.ErrDatabaseDuplicateKey)
}

func TestAuthComponent_PasswordHashNotPlaintext(t *testing.T) {
	c, us := newTestAuthComponent(t)

	_, err := c.Register(context.TODO(), types.RegisterUserReq{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)

	stored, err := us.FindByUsername(context.TODO(), "dave")
	require.NoError(t, err)
	require.NotEqual(t, "super-secret", stored.PasswordHash)
	require.NotContains(t, stored.PasswordHash, "super-secret")
}

func TestAuthComponent_UpdateWallet(t *testing.T) {
	c, _ := newTestAuthComponent(t)
	ctx := context.TODO()

	_, err := c.Register(ctx, types.RegisterUserReq{
		Username: "frank",
		Email:    "frank@example.com",
		Password: "frank-pass-1",
	})
	require.NoError(t, err)

	user, err := c.UpdateWallet(ctx, "frank", types.UpdateWalletReq{SuiAddress: "0x1234"})
	require.NoError(t, err)
	require.Equal(t, "0x1234", user.SuiAddress)

	// relinking the same address to the same account is a no-op
	_, err = c.UpdateWallet(ctx, "frank", types.UpdateWalletReq{SuiAddress: "0x1234"})
	require.NoError(t, err)
}

func TestAuthComponent_UpdateWalletAddressTaken(t *testing.T) {
	c, _ := newTestAuthComponent(t)
	ctx := context.TODO()

	_, err := c.Register(ctx, types.RegisterUserReq{
		Username:   "grace",
		Email:      "grace@example.com",
		Password:   "grace-pass-1",
		SuiAddress: "0x5678",
	})
	require.NoError(t, err)
	_, err = c.Register(ctx, types.RegisterUserReq{
		Username: "heidi",
		Email:    "heidi@example.com",
		Password: "heidi-pass-1",
	})
	require.NoError(t, err)

	_, err = c.UpdateWallet(ctx, "heidi", types.UpdateWalletReq{SuiAddress: "0x5678"})
	require.ErrorIs(t, err, errorx.ErrReqParamInvalid)
}

func TestAuthComponent_Me(t *testing.T) {
	c, _ := newTestAuthComponent(t)
	ctx := context.TODO()

	_, err := c.Register(ctx, types.RegisterUserReq{
		Username:   "erin",
		Email:      "erin@example.com",
		Password:   "erin-pass-1",
		SuiAddress: "0xdef",
	})
	require.NoError(t, err)

	user, err := c.Me(ctx, "erin")
	require.NoError(t, err)
	require.Equal(t, "erin@example.com", user.Email)
	require.Equal(t, "0xdef", user.SuiAddress)
}
