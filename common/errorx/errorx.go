package errorx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var errorCodeRegex = regexp.MustCompile(`^([A-Z]+-ERR)-(\d+)$`)

func IsValidErrorCode(code string) bool {
	return errorCodeRegex.MatchString(code)
}

// ParseErrorCode parses an error code string of the form "PREFIX-ERR-NUMBER"
// (e.g. "AUTH-ERR-1", "CHAIN-ERR-2") into a CustomError. Unparsable input
// yields the unknown error.
func ParseErrorCode(errorCode string) CustomError {
	errUnknown := CustomError{
		Prefix: errUnknownPrefix,
		Code:   0,
	}

	matches := errorCodeRegex.FindStringSubmatch(errorCode)
	if len(matches) != 3 {
		return errUnknown
	}

	prefix := matches[1]
	codeNum, err := strconv.Atoi(matches[2])
	if err != nil {
		return errUnknown
	}

	return CustomError{
		Prefix: prefix,
		Code:   codeNum,
	}
}

type CoreError interface {
	Error() string
	Code() string
	CustomError() CustomError
}

// CustomError is the standard error envelope. CustomError.Code is stable and
// machine readable; Context carries free-form key/values for logs.
// CustomError implements the error interface.
type CustomError struct {
	Prefix  string  `json:"prefix"`
	Code    int     `json:"code"`
	Context context `json:"context,omitempty"`
}

func (err CustomError) Error() string {
	return err.Prefix + "-" + fmt.Sprintf("%d", err.Code)
}

func (err CustomError) Detail() string {
	errorMsg := err.Error()
	if len(err.Context) > 0 {
		var auxParts []string
		for key, value := range err.Context {
			auxParts = append(auxParts, fmt.Sprintf("%s:%v", key, value))
		}
		errorMsg += " [" + strings.Join(auxParts, ", ") + "]"
	}

	return errorMsg
}

// used for errors.Is to check error type
func (err CustomError) Unwrap() error {
	switch err.Prefix {
	case errSysPrefix:
		return errSysMap[errSysCode(err.Code)]
	case errReqPrefix:
		return errReqMap[errReqCode(err.Code)]
	case errAuthPrefix:
		return errAuthMap[errAuthCode(err.Code)]
	case errAdapterPrefix:
		return errAdapterMap[errAdapterCode(err.Code)]
	case errChainPrefix:
		return errChainMap[errChainCode(err.Code)]
	case errRelayPrefix:
		return errRelayMap[errRelayCode(err.Code)]
	default:
		return ErrUnknown
	}
}

// UnwrapError recursively unwraps single-wrapped errors.
//
// If more than one error is wrapped, use UnwrapAllError.
func UnwrapError(err error) error {
	for err != nil {
		if wrappedErr, ok := err.(interface{ Unwrap() error }); ok {
			err = wrappedErr.Unwrap()
		} else {
			break
		}
	}
	return err
}

func UnwrapAllError(err error) []error {
	if err == nil {
		return nil
	}

	var result []error
	result = append(result, err)

	if unwrapper, ok := err.(interface{ Unwrap() []error }); ok {
		for _, subErr := range unwrapper.Unwrap() {
			result = append(result, UnwrapAllError(subErr)...)
		}
		return result
	}

	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		if subErr := unwrapper.Unwrap(); subErr != nil {
			result = append(result, UnwrapAllError(subErr)...)
		}
	}

	return result
}

func GetFirstCustomError(err error) (error, bool) {
	allErrors := UnwrapAllError(err)
	for _, e := range allErrors {
		if IsValidErrorCode(e.Error()) {
			return e, true
		} else if coreError, ok := e.(CoreError); ok {
			return coreError.CustomError(), true
		}
	}
	return err, false
}

const errUnknownPrefix = "UNKNOWN-ERR"

var ErrUnknown error = CustomError{Prefix: errUnknownPrefix, Code: 0}
