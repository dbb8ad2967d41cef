package errorx

import "fmt"

const errAuthPrefix = "AUTH-ERR"

type errAuthCode int

type errAuth struct {
	code errAuthCode
}

func (err errAuth) Error() string {
	return fmt.Sprintf("%d", err.code)
}

func (err errAuth) Code() string {
	return errAuthPrefix + "-" + fmt.Sprintf("%d", err.code)
}

func (err errAuth) CustomError() CustomError {
	return CustomError{
		Prefix: errAuthPrefix,
		Code:   int(err.code),
	}
}

const (
	unauthorized errAuthCode = iota
	userNotFound
	forbidden
	invalidJWT
	invalidAuthHeader
	invalidCredentials
	// wallet signature could not be verified against the claimed address
	invalidSignature
)

var (
	// --- AUTH-ERR-xxx: User and permission related errors ---

	// not allowed for anonymous callers (need to login first)
	ErrUnauthorized = errAuth{code: unauthorized}
	// cannot find corresponding user
	ErrUserNotFound = errAuth{code: userNotFound}
	// not enough permission for current user
	ErrForbidden = errAuth{code: forbidden}
	// provided JWT is invalid or expired
	ErrInvalidJWT = errAuth{code: invalidJWT}
	// authorization header is invalid or malformed
	ErrInvalidAuthHeader = errAuth{code: invalidAuthHeader}
	// email/password combination does not match
	ErrInvalidCredentials = errAuth{code: invalidCredentials}
	// wallet signature rejected; verification always fails closed
	ErrInvalidSignature = errAuth{code: invalidSignature}
)

var errAuthMap = map[errAuthCode]errAuth{
	unauthorized:       ErrUnauthorized,
	userNotFound:       ErrUserNotFound,
	forbidden:          ErrForbidden,
	invalidJWT:         ErrInvalidJWT,
	invalidAuthHeader:  ErrInvalidAuthHeader,
	invalidCredentials: ErrInvalidCredentials,
	invalidSignature:   ErrInvalidSignature,
}

func InvalidJWT(err error, errCtx context) error {
	customErr := ErrInvalidJWT.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func InvalidSignature(err error, errCtx context) error {
	customErr := ErrInvalidSignature.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func InvalidCredentials(err error, errCtx context) error {
	customErr := ErrInvalidCredentials.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}

func Forbidden(err error, errCtx context) error {
	customErr := ErrForbidden.CustomError()
	customErr.Context = errCtx
	return fmt.Errorf("%w, %w", err, customErr)
}
