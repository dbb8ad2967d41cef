package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mindshard/mindshard-server/api/httpbase"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/mindshard/mindshard-server/component"
)

type AuthHandler struct {
	auth *component.AuthComponent
}

func NewAuthHandler(cfg *config.Config) (*AuthHandler, error) {
	return &AuthHandler{auth: component.NewAuthComponent(cfg)}, nil
}

// Register godoc
// @Summary      Register a user
// @Description  create a user account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RegisterUserReq true "body"
// @Success      201  {object}  httpbase.R{data=types.User} "Created"
// @Failure      409  {object}  httpbase.R "Username or email taken"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req types.RegisterUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	user, err := h.auth.Register(ctx.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to register user",
			slog.String("username", req.Username), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.Created(ctx, user)
}

// Login godoc
// @Summary      Log in
// @Description  exchange email and password for a JWT
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.LoginReq true "body"
// @Success      200  {object}  httpbase.R{data=types.LoginResp} "OK"
// @Failure      401  {object}  httpbase.R "Unknown user or wrong password"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req types.LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	resp, err := h.auth.Login(ctx.Request.Context(), req)
	if err != nil {
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, resp)
}

// UpdateWallet godoc
// @Security     ApiKey
// @Summary      Link a wallet
// @Description  set the authenticated user's Sui address
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.UpdateWalletReq true "body"
// @Success      200  {object}  httpbase.R{data=types.User} "OK"
// @Failure      400  {object}  httpbase.R "Address linked to another account"
// @Failure      401  {object}  httpbase.R "Unauthorized"
// @Router       /auth/wallet [put]
func (h *AuthHandler) UpdateWallet(ctx *gin.Context) {
	currentUser := httpbase.GetCurrentUser(ctx)
	if currentUser == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user not found, please login first"))
		return
	}
	var req types.UpdateWalletReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	user, err := h.auth.UpdateWallet(ctx.Request.Context(), currentUser, req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to update wallet",
			slog.String("username", currentUser), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, user)
}

// Me godoc
// @Security     ApiKey
// @Summary      Current user
// @Description  get the authenticated user's profile
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  httpbase.R{data=types.User} "OK"
// @Failure      401  {object}  httpbase.R "Unauthorized"
// @Router       /auth/me [get]
func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser := httpbase.GetCurrentUser(ctx)
	if currentUser == "" {
		httpbase.UnauthorizedError(ctx, errors.New("user not found, please login first"))
		return
	}
	user, err := h.auth.Me(ctx.Request.Context(), currentUser)
	if err != nil {
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, user)
}
