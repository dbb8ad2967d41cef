package errorx

import "fmt"

const errReqPrefix = "REQ-ERR"

type errReqCode int

type errReq struct {
	code errReqCode
}

func (err errReq) Error() string {
	return fmt.Sprintf("%d", err.code)
}

func (err errReq) Code() string {
	return errReqPrefix + "-" + fmt.Sprintf("%d", err.code)
}

func (err errReq) CustomError() CustomError {
	return CustomError{
		Prefix: errReqPrefix,
		Code:   int(err.code),
	}
}

const (
	errBadRequest errReqCode = iota
	errReqBodyFormat
	errReqParamMissing
	errReqParamInvalid
)

var (
	// --- REQ-ERR-xxx: Request related errors ---
	ErrBadRequest = errReq{code: errBadRequest}
	// Request body format error
	ErrReqBodyFormat = errReq{code: errReqBodyFormat}
	// Required request parameter missing
	ErrReqParamMissing = errReq{code: errReqParamMissing}
	// Invalid request parameter
	ErrReqParamInvalid = errReq{code: errReqParamInvalid}
)

var errReqMap = map[errReqCode]errReq{
	errBadRequest:      ErrBadRequest,
	errReqBodyFormat:   ErrReqBodyFormat,
	errReqParamMissing: ErrReqParamMissing,
	errReqParamInvalid: ErrReqParamInvalid,
}

func ReqBodyFormat(err error, ext context) error {
	customErr := ErrReqBodyFormat.CustomError()
	customErr.Context = ext
	return fmt.Errorf("%w, %w", err, customErr)
}

func ReqParamMissing(err error, ext context) error {
	customErr := ErrReqParamMissing.CustomError()
	customErr.Context = ext
	return fmt.Errorf("%w, %w", err, customErr)
}

func ReqParamInvalid(err error, ext context) error {
	customErr := ErrReqParamInvalid.CustomError()
	customErr.Context = ext
	return fmt.Errorf("%w, %w", err, customErr)
}
