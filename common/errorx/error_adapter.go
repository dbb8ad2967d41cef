package errorx

import "fmt"

const errAdapterPrefix = "ADAPTER-ERR"

type errAdapterCode int

type errAdapter struct {
	code errAdapterCode
}

func (err errAdapter) Error() string {
	return fmt.Sprintf("%d", err.code)
}

func (err errAdapter) Code() string {
	return errAdapterPrefix + "-" + fmt.Sprintf("%d", err.code)
}

func (err errAdapter) CustomError() CustomError {
	return CustomError{
		Prefix: errAdapterPrefix,
		Code:   int(err.code),
	}
}

const (
	adapterNotFound errAdapterCode = iota
	adapterAlreadyExists
	versionConflict
	bundleInvalid
)

var (
	// --- ADAPTER-ERR-xxx: Registry errors ---

	ErrAdapterNotFound = errAdapter{code: adapterNotFound}
	// an adapter with the same manifest hash is already registered;
	// the manifest hash is the mint idempotency key
	ErrAdapterAlreadyExists = errAdapter{code: adapterAlreadyExists}
	// attempt to mutate the CID or hash of an existing version entry
	ErrVersionConflict = errAdapter{code: versionConflict}
	// bundle failed validation
	ErrBundleInvalid = errAdapter{code: bundleInvalid}
)

var errAdapterMap = map[errAdapterCode]errAdapter{
	adapterNotFound:      ErrAdapterNotFound,
	adapterAlreadyExists: ErrAdapterAlreadyExists,
	versionConflict:      ErrVersionConflict,
	bundleInvalid:        ErrBundleInvalid,
}

func AdapterNotFound(err error, errCtx context) error {
	customErr := ErrAdapterNotFound.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func AdapterAlreadyExists(err error, errCtx context) error {
	customErr := ErrAdapterAlreadyExists.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func BundleInvalid(err error, errCtx context) error {
	customErr := ErrBundleInvalid.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}
