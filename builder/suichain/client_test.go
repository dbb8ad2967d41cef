package suichain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mindshard/mindshard-server/common/errorx"
)

const testRPC = "http://fullnode.test"

func rpcResult(result any) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		raw, _ := json.Marshal(result)
		return httpmock.NewJsonResponse(200, map[string]any{
			"jsonrpc": "2.0", "id": 1, "result": json.RawMessage(raw),
		})
	}
}

func TestClient_GetGasCoins(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testRPC, rpcResult(map[string]any{
		"data": []map[string]any{
			{"coinObjectId": "0xc0ffee", "balance": "1000000"},
		},
		"hasNextPage": false,
	}))

	client := NewClient(testRPC)
	coins, err := client.GetGasCoins(context.Background(), "0xabc")
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "0xc0ffee", coins[0].CoinObjectID)
}

func TestClient_BuildMoveCall(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testRPC,
		func(req *http.Request) (*http.Response, error) {
			var rpcReq map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&rpcReq))
			assert.Equal(t, "unsafe_moveCall", rpcReq["method"])
			params := rpcReq["params"].([]any)
			assert.Equal(t, "0xsigner", params[0])
			assert.Equal(t, "mint_adapter", params[3])
			return httpmock.NewJsonResponse(200, map[string]any{
				"jsonrpc": "2.0", "id": 1,
				"result": map[string]any{"txBytes": "dHhieXRlcw=="},
			})
		})

	client := NewClient(testRPC)
	txBytes, err := client.BuildMoveCall(context.Background(), MoveCallReq{
		Signer:    "0xsigner",
		PackageID: "0xpkg",
		Module:    "marketplace",
		Function:  "mint_adapter",
		Args:      []any{"llama-med-lora", "ab12", "cid-1"},
		GasObject: "0xc0ffee",
		GasBudget: 20000000,
	})
	require.NoError(t, err)
	assert.Equal(t, "dHhieXRlcw==", txBytes)
}

func TestClient_RPCError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testRPC,
		httpmock.NewStringResponder(200,
			`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid params"}}`))

	client := NewClient(testRPC)
	_, err := client.GetGasCoins(context.Background(), "0xabc")
	require.Error(t, err)
	require.True(t, errors.Is(err, errorx.ErrChainRPCFailure))
}

func TestClient_HTTPError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testRPC,
		httpmock.NewStringResponder(502, "bad gateway"))

	client := NewClient(testRPC)
	_, err := client.GetGasCoins(context.Background(), "0xabc")
	require.Error(t, err)
	require.True(t, errors.Is(err, errorx.ErrChainRPCFailure))
}

func TestClient_ExecuteTransaction(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testRPC, rpcResult(map[string]any{
		"digest":  "9WzFw",
		"effects": map[string]any{"status": map[string]any{"status": "success"}},
	}))

	client := NewClient(testRPC)
	resp, err := client.ExecuteTransaction(context.Background(), "dHhieXRlcw==", []string{"sig1", "sig2"})
	require.NoError(t, err)
	assert.Equal(t, "9WzFw", resp.Digest)
}

func TestClient_ExecuteTransaction_OnChainFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testRPC, rpcResult(map[string]any{
		"digest": "9WzFw",
		"effects": map[string]any{"status": map[string]any{
			"status": "failure", "error": "MoveAbort: 7",
		}},
	}))

	client := NewClient(testRPC)
	_, err := client.ExecuteTransaction(context.Background(), "dHhieXRlcw==", []string{"sig1"})
	require.Error(t, err)
	require.True(t, errors.Is(err, errorx.ErrTxExecuteFailed))
}
