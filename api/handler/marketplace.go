package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mindshard/mindshard-server/api/httpbase"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/mindshard/mindshard-server/component"
)

type MarketplaceHandler struct {
	marketplace *component.MarketplaceComponent
}

func NewMarketplaceHandler(cfg *config.Config) (*MarketplaceHandler, error) {
	return &MarketplaceHandler{marketplace: component.NewMarketplaceComponent(cfg)}, nil
}

// Purchase godoc
// @Security     ApiKey
// @Summary      Record a purchase
// @Description  record the purchase of an adapter by a wallet
// @Tags         Marketplace
// @Accept       json
// @Produce      json
// @Param        body body types.PurchaseReq true "body"
// @Success      200  {object}  httpbase.R{data=types.Purchase} "OK"
// @Failure      404  {object}  httpbase.R "Adapter not found"
// @Failure      409  {object}  httpbase.R "Already purchased"
// @Router       /marketplace/purchase [post]
func (h *MarketplaceHandler) Purchase(ctx *gin.Context) {
	var req types.PurchaseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	purchase, err := h.marketplace.Purchase(ctx.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to record purchase",
			slog.String("adapter_id", req.AdapterID), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, purchase)
}

// Purchases godoc
// @Security     ApiKey
// @Summary      List purchases
// @Description  list the purchase history of a wallet
// @Tags         Marketplace
// @Produce      json
// @Param        buyer query string true "buyer wallet address"
// @Success      200  {object}  httpbase.R{data=[]types.Purchase} "OK"
// @Router       /marketplace/purchases [get]
func (h *MarketplaceHandler) Purchases(ctx *gin.Context) {
	buyer := ctx.Query("buyer")
	if buyer == "" {
		httpbase.BadRequest(ctx, "buyer is required")
		return
	}
	purchases, err := h.marketplace.PurchasesByBuyer(ctx.Request.Context(), buyer)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to list purchases",
			slog.String("buyer", buyer), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, purchases)
}
