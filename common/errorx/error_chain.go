package errorx

import "fmt"

const errChainPrefix = "CHAIN-ERR"

type errChainCode int

type errChain struct {
	code errChainCode
}

func (err errChain) Error() string {
	return fmt.Sprintf("%d", err.code)
}

func (err errChain) Code() string {
	return errChainPrefix + "-" + fmt.Sprintf("%d", err.code)
}

func (err errChain) CustomError() CustomError {
	return CustomError{
		Prefix: errChainPrefix,
		Code:   int(err.code),
	}
}

const (
	platformKeyMissing errChainCode = iota
	noGasCoins
	rpcFailure
	txExecuteFailed
)

var (
	// --- CHAIN-ERR-xxx: Sui integration errors ---

	// platform signing key absent from configuration, checked at service
	// construction time
	ErrPlatformKeyMissing = errChain{code: platformKeyMissing}
	// platform address holds no spendable gas coins; operator must refund
	ErrNoGasCoins = errChain{code: noGasCoins}
	// JSON-RPC transport or protocol failure
	ErrChainRPCFailure = errChain{code: rpcFailure}
	// transaction submitted but execution reported failure
	ErrTxExecuteFailed = errChain{code: txExecuteFailed}
)

var errChainMap = map[errChainCode]errChain{
	platformKeyMissing: ErrPlatformKeyMissing,
	noGasCoins:         ErrNoGasCoins,
	rpcFailure:         ErrChainRPCFailure,
	txExecuteFailed:    ErrTxExecuteFailed,
}

func NoGasCoins(err error, errCtx context) error {
	customErr := ErrNoGasCoins.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func ChainRPCFailure(err error, errCtx context) error {
	customErr := ErrChainRPCFailure.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func TxExecuteFailed(err error, errCtx context) error {
	customErr := ErrTxExecuteFailed.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}
