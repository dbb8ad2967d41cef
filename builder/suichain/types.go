package suichain

import "encoding/json"

// JSON-RPC 2.0 envelope used by Sui fullnodes.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// Coin is one entry of a suix_getCoins page.
type Coin struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      string `json:"balance"`
}

type coinPage struct {
	Data        []Coin `json:"data"`
	HasNextPage bool   `json:"hasNextPage"`
}

// TxBytes is the result of an unsafe_ transaction build call.
type TxBytes struct {
	TxBytes string `json:"txBytes"`
}

type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type TxEffects struct {
	Status ExecutionStatus `json:"status"`
}

// TxResponse is the (trimmed) response of sui_executeTransactionBlock.
type TxResponse struct {
	Digest  string     `json:"digest"`
	Effects *TxEffects `json:"effects"`
}

// MoveCallReq describes a Move entry function invocation to be assembled by
// the fullnode into unsigned transaction bytes.
type MoveCallReq struct {
	Signer    string
	PackageID string
	Module    string
	Function  string
	TypeArgs  []string
	Args      []any
	GasObject string
	GasBudget uint64
}
