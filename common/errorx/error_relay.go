package errorx

import "fmt"

const errRelayPrefix = "RELAY-ERR"

type errRelayCode int

type errRelay struct {
	code errRelayCode
}

func (err errRelay) Error() string {
	return fmt.Sprintf("%d", err.code)
}

func (err errRelay) Code() string {
	return errRelayPrefix + "-" + fmt.Sprintf("%d", err.code)
}

func (err errRelay) CustomError() CustomError {
	return CustomError{
		Prefix: errRelayPrefix,
		Code:   int(err.code),
	}
}

const (
	relayUnreachable errRelayCode = iota
	relayRejected
	blobNotFound
)

var (
	// --- RELAY-ERR-xxx: Walrus upload relay errors ---

	ErrRelayUnreachable = errRelay{code: relayUnreachable}
	// relay answered with a non-2xx status
	ErrRelayRejected = errRelay{code: relayRejected}
	ErrBlobNotFound  = errRelay{code: blobNotFound}
)

var errRelayMap = map[errRelayCode]errRelay{
	relayUnreachable: ErrRelayUnreachable,
	relayRejected:    ErrRelayRejected,
	blobNotFound:     ErrBlobNotFound,
}

func RelayUnreachable(err error, errCtx context) error {
	customErr := ErrRelayUnreachable.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func RelayRejected(err error, errCtx context) error {
	customErr := ErrRelayRejected.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func BlobNotFound(err error, errCtx context) error {
	customErr := ErrBlobNotFound.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}
