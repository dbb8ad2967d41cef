package httpbase

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mindshard/mindshard-server/common/errorx"
)

// OK responds the client with standard JSON.
//
// Example:
// * ok(c, something)
// * ok(c, nil)
func OK(c *gin.Context, data interface{}) {
	c.PureJSON(http.StatusOK, R{
		Msg:  "OK",
		Data: data,
	})
}

// Created responds with 201 and the created resource.
func Created(c *gin.Context, data interface{}) {
	c.PureJSON(http.StatusCreated, R{
		Msg:  "OK",
		Data: data,
	})
}

// BadRequest responds with a JSON-formatted error message.
func BadRequest(c *gin.Context, errMsg string) {
	c.PureJSON(http.StatusBadRequest, R{
		Msg: errMsg,
	})
}

// ServerError responds with a JSON-formatted error message.
func ServerError(c *gin.Context, err error) {
	c.PureJSON(http.StatusInternalServerError, R{
		Msg: err.Error(),
	})
}

// UnauthorizedError responds with a JSON-formatted error message.
func UnauthorizedError(c *gin.Context, err error) {
	c.PureJSON(http.StatusUnauthorized, R{
		Msg: err.Error(),
	})
}

// ForbiddenError responds with a JSON-formatted error message.
func ForbiddenError(c *gin.Context, err error) {
	c.PureJSON(http.StatusForbidden, R{
		Msg: err.Error(),
	})
}

// NotFoundError responds with a JSON-formatted error message.
func NotFoundError(c *gin.Context, err error) {
	c.PureJSON(http.StatusNotFound, R{
		Msg: err.Error(),
	})
}

// ConflictError responds with a JSON-formatted error message.
func ConflictError(c *gin.Context, err error) {
	c.PureJSON(http.StatusConflict, R{
		Msg: err.Error(),
	})
}

// ServiceUnavailableError responds with a JSON-formatted error message,
// used when an upstream dependency (chain rpc, relay) is down or the
// platform wallet has run out of gas.
func ServiceUnavailableError(c *gin.Context, err error) {
	c.PureJSON(http.StatusServiceUnavailable, R{
		Msg: err.Error(),
	})
}

// HandleError maps known error codes to HTTP statuses. Unrecognized errors
// become 500s.
func HandleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errorx.ErrDatabaseNoRows),
		errors.Is(err, errorx.ErrAdapterNotFound),
		errors.Is(err, errorx.ErrUserNotFound),
		errors.Is(err, errorx.ErrBlobNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errorx.ErrDatabaseDuplicateKey),
		errors.Is(err, errorx.ErrAdapterAlreadyExists),
		errors.Is(err, errorx.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, errorx.ErrInvalidSignature),
		errors.Is(err, errorx.ErrInvalidJWT),
		errors.Is(err, errorx.ErrInvalidAuthHeader),
		errors.Is(err, errorx.ErrInvalidCredentials),
		errors.Is(err, errorx.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errorx.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errorx.ErrBadRequest),
		errors.Is(err, errorx.ErrReqBodyFormat),
		errors.Is(err, errorx.ErrReqParamMissing),
		errors.Is(err, errorx.ErrReqParamInvalid),
		errors.Is(err, errorx.ErrBundleInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, errorx.ErrNoGasCoins),
		errors.Is(err, errorx.ErrChainRPCFailure),
		errors.Is(err, errorx.ErrRelayUnreachable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errorx.ErrTxExecuteFailed),
		errors.Is(err, errorx.ErrRelayRejected):
		status = http.StatusBadGateway
	}

	resp := R{Msg: err.Error()}
	if customErr, ok := errorx.GetFirstCustomError(err); ok {
		resp.ErrorCode = customErr.Error()
	}
	c.PureJSON(status, resp)
}

// R is the response envelope
type R struct {
	Code int `json:"code,omitempty"`
	// machine-readable errorx code, e.g. "ADAPTER-ERR-0"
	ErrorCode string `json:"error_code,omitempty"`
	Msg       string `json:"msg"`
	Data      any    `json:"data,omitempty"`
}
