package httpbase

import (
	"github.com/gin-gonic/gin"
)

const (
	CurrentUserCtxVar = "currentUser"
	SuiAddressCtxVar  = "suiAddress"
	AuthTypeCtxVar    = "authType"
)

type AuthType string

const (
	AuthTypeApiKey AuthType = "ApiKey"
	AuthTypeJwt    AuthType = "JWT"
)

// GetCurrentUser returns the current user name from the context.
//
// user name could be previously set by parsing the jwt token
func GetCurrentUser(ctx *gin.Context) string {
	return ctx.GetString(CurrentUserCtxVar)
}

func SetCurrentUser(ctx *gin.Context, user string) {
	ctx.Set(CurrentUserCtxVar, user)
}

// GetSuiAddress returns the wallet address bound to the current session.
func GetSuiAddress(ctx *gin.Context) string {
	return ctx.GetString(SuiAddressCtxVar)
}

func SetSuiAddress(ctx *gin.Context, address string) {
	ctx.Set(SuiAddressCtxVar, address)
}

func GetAuthType(ctx *gin.Context) AuthType {
	return AuthType(ctx.GetString(AuthTypeCtxVar))
}

func SetAuthType(ctx *gin.Context, t AuthType) {
	ctx.Set(AuthTypeCtxVar, string(t))
}
