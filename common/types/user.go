package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	SuiAddress string    `json:"suiAddress,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RegisterUserReq struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	SuiAddress string `json:"suiAddress"`
}

type UpdateWalletReq struct {
	SuiAddress string `json:"suiAddress" binding:"required"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResp struct {
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expireAt"`
	User     User      `json:"user"`
}

type JWTClaims struct {
	CurrentUser string `json:"current_user"`
	SuiAddress  string `json:"sui_address,omitempty"`
	jwt.RegisteredClaims
}

type PurchaseReq struct {
	AdapterID    string `json:"adapterId" binding:"required"`
	BuyerAddress string `json:"buyerAddress" binding:"required"`
	TxDigest     string `json:"txDigest"`
}

type Purchase struct {
	ID           string    `json:"id"`
	AdapterID    string    `json:"adapterId"`
	BuyerAddress string    `json:"buyer"`
	Price        int64     `json:"price"`
	TxDigest     string    `json:"txDigest,omitempty"`
	CreatedAt    time.Time `json:"timestamp"`
}
