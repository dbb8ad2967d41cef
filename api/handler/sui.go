package handler

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mindshard/mindshard-server/api/httpbase"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/mindshard/mindshard-server/component"
)

type SuiHandler struct {
	mint *component.MintComponent
}

func NewSuiHandler(cfg *config.Config) (*SuiHandler, error) {
	c, err := component.NewMintComponent(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mint component: %w", err)
	}
	return &SuiHandler{mint: c}, nil
}

// Mint godoc
// @Security     ApiKey
// @Summary      Mint an adapter on chain
// @Description  verify the uploader's signature, publish the adapter on Sui and persist the record
// @Tags         Sui
// @Accept       json
// @Produce      json
// @Param        body body types.MintReq true "body"
// @Success      200  {object}  httpbase.R{data=types.MintResp} "OK"
// @Failure      401  {object}  httpbase.R "Invalid signature"
// @Failure      409  {object}  httpbase.R "Adapter already minted"
// @Failure      502  {object}  httpbase.R "Transaction failed on chain"
// @Failure      503  {object}  httpbase.R "No gas coins or RPC unavailable"
// @Router       /sui/mint [post]
func (h *SuiHandler) Mint(ctx *gin.Context) {
	var req types.MintReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	resp, err := h.mint.Mint(ctx.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to mint adapter",
			slog.String("manifest_hash", req.ManifestHash), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, resp)
}

// Verify godoc
// @Summary      Verify a signed manifest
// @Description  check a wallet signature over a manifest document
// @Tags         Sui
// @Accept       json
// @Produce      json
// @Param        body body types.VerifyManifestReq true "body"
// @Success      200  {object}  httpbase.R "OK"
// @Failure      401  {object}  httpbase.R "Invalid signature"
// @Router       /sui/verify [post]
func (h *SuiHandler) Verify(ctx *gin.Context) {
	var req types.VerifyManifestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	if err := h.mint.VerifyManifest(ctx.Request.Context(), req); err != nil {
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{"ok": true})
}

// Health godoc
// @Summary      Chain health
// @Description  report RPC reachability, reference gas price and the platform address
// @Tags         Sui
// @Produce      json
// @Success      200  {object}  httpbase.R "OK"
// @Router       /sui/health [get]
func (h *SuiHandler) Health(ctx *gin.Context) {
	resp, err := h.mint.Health(ctx.Request.Context())
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "chain health check failed", slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, resp)
}
