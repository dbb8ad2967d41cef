package component

import (
	"context"
	"fmt"

	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/types"
)

// MarketplaceComponent records purchases. Chain payment settlement is not
// wired yet: the endpoint records intent and the purchase row, it never
// fabricates an on-chain success.
type MarketplaceComponent struct {
	as  database.AdapterStore
	ps  database.PurchaseStore
	cfg *config.Config
}

func NewMarketplaceComponent(cfg *config.Config) *MarketplaceComponent {
	return &MarketplaceComponent{
		as:  database.NewAdapterStore(),
		ps:  database.NewPurchaseStore(),
		cfg: cfg,
	}
}

func (c *MarketplaceComponent) Purchase(ctx context.Context, req types.PurchaseReq) (*types.Purchase, error) {
	adapter, err := c.as.FindByID(ctx, req.AdapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to find adapter by id '%s': %w", req.AdapterID, err)
	}
	purchase, err := c.as.RecordPurchase(ctx, database.Purchase{
		AdapterID:    adapter.ID,
		BuyerAddress: req.BuyerAddress,
		Price:        adapter.Price,
		TxDigest:     req.TxDigest,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record purchase of adapter '%s': %w", req.AdapterID, err)
	}
	return &types.Purchase{
		ID:           purchase.ID,
		AdapterID:    purchase.AdapterID,
		BuyerAddress: purchase.BuyerAddress,
		Price:        purchase.Price,
		TxDigest:     purchase.TxDigest,
		CreatedAt:    purchase.CreatedAt,
	}, nil
}

// PurchasesByBuyer lists a wallet's purchase history.
func (c *MarketplaceComponent) PurchasesByBuyer(ctx context.Context, buyerAddress string) ([]types.Purchase, error) {
	purchases, err := c.ps.FindByBuyer(ctx, buyerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases of '%s': %w", buyerAddress, err)
	}
	resp := make([]types.Purchase, 0, len(purchases))
	for _, p := range purchases {
		resp = append(resp, types.Purchase{
			ID:           p.ID,
			AdapterID:    p.AdapterID,
			BuyerAddress: p.BuyerAddress,
			Price:        p.Price,
			TxDigest:     p.TxDigest,
			CreatedAt:    p.CreatedAt,
		})
	}
	return resp, nil
}
