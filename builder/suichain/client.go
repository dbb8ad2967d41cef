package suichain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mindshard/mindshard-server/common/errorx"
)

// Client is a thin JSON-RPC client for a Sui fullnode. Only the handful of
// methods the mint flow needs are wrapped.
type Client struct {
	endpoint string
	hc       *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		hc:       http.DefaultClient,
	}
}

func (c *Client) call(ctx context.Context, method string, params []any, outObj any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return errorx.ChainRPCFailure(
			fmt.Errorf("failed to do rpc request, method:%s, err:%w", method, err),
			errorx.Ctx().Set("method", method),
		)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errorx.ChainRPCFailure(
			fmt.Errorf("rpc status %d, method:%s", resp.StatusCode, method),
			errorx.Ctx().Set("method", method).Set("status", resp.StatusCode),
		)
	}
	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return errorx.ChainRPCFailure(
			fmt.Errorf("failed to decode rpc response, method:%s, err:%w", method, err),
			errorx.Ctx().Set("method", method),
		)
	}
	if rpcResp.Error != nil {
		return errorx.ChainRPCFailure(
			fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message),
			errorx.Ctx().Set("method", method).Set("code", rpcResp.Error.Code),
		)
	}
	if outObj != nil {
		if err := json.Unmarshal(rpcResp.Result, outObj); err != nil {
			return fmt.Errorf("failed to unmarshal rpc result, method:%s, err:%w", method, err)
		}
	}
	return nil
}

// GetReferenceGasPrice is used as a cheap liveness probe of the fullnode.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (string, error) {
	var price string
	err := c.call(ctx, "suix_getReferenceGasPrice", []any{}, &price)
	if err != nil {
		return "", err
	}
	return price, nil
}

// GetGasCoins returns the SUI coins owned by the address. An empty result is
// not an rpc error, callers decide whether it is fatal.
func (c *Client) GetGasCoins(ctx context.Context, owner string) ([]Coin, error) {
	var page coinPage
	err := c.call(ctx, "suix_getCoins", []any{owner, "0x2::sui::SUI", nil, nil}, &page)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// BuildMoveCall asks the fullnode to assemble unsigned transaction bytes for
// a Move entry call.
func (c *Client) BuildMoveCall(ctx context.Context, req MoveCallReq) (string, error) {
	var gas any
	if req.GasObject != "" {
		gas = req.GasObject
	}
	var out TxBytes
	err := c.call(ctx, "unsafe_moveCall", []any{
		req.Signer,
		req.PackageID,
		req.Module,
		req.Function,
		req.TypeArgs,
		req.Args,
		gas,
		strconv.FormatUint(req.GasBudget, 10),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.TxBytes, nil
}

// ExecuteTransaction submits signed transaction bytes and waits for effects.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*TxResponse, error) {
	var out TxResponse
	err := c.call(ctx, "sui_executeTransactionBlock", []any{
		txBytes,
		signatures,
		map[string]any{"showEffects": true},
		"WaitForLocalExecution",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Effects != nil && out.Effects.Status.Status != "success" {
		return nil, errorx.TxExecuteFailed(
			fmt.Errorf("transaction failed on chain: %s", out.Effects.Status.Error),
			errorx.Ctx().Set("digest", out.Digest),
		)
	}
	return &out, nil
}
