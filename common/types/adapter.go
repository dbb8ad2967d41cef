package types

import "time"

type AdapterSort string

const (
	AdapterSortPopular   AdapterSort = "popular"
	AdapterSortNewest    AdapterSort = "newest"
	AdapterSortPriceLow  AdapterSort = "price-low"
	AdapterSortPriceHigh AdapterSort = "price-high"
)

// AdapterVersion is one entry of an adapter's version history. Once written,
// the CID and hash of an entry never change; a new release appends a new entry.
type AdapterVersion struct {
	Version      string    `json:"version"`
	WalrusCID    string    `json:"walrusCID"`
	ManifestHash string    `json:"manifestHash"`
	CreatedAt    time.Time `json:"createdAt"`
	Changelog    string    `json:"changelog,omitempty"`
}

type Adapter struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Version        string           `json:"version"`
	BaseModel      string           `json:"baseModel"`
	Task           string           `json:"task"`
	Language       string           `json:"language"`
	License        string           `json:"license"`
	Creator        string           `json:"creator"`
	CreatorAddress string           `json:"creatorAddress"`
	ManifestHash   string           `json:"manifestHash"`
	WalrusCID      string           `json:"walrusCID"`
	Signature      string           `json:"signature"`
	Downloads      int64            `json:"downloads"`
	Purchases      int64            `json:"purchases"`
	Verified       bool             `json:"verified"`
	// Price is denominated in MIST, the smallest SUI unit.
	Price     int64            `json:"price"`
	IsPrivate bool             `json:"isPrivate"`
	Tags      []string         `json:"tags"`
	Versions  []AdapterVersion `json:"versions"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type CreateAdapterReq struct {
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	Version        string           `json:"version"`
	BaseModel      string           `json:"baseModel"`
	Task           string           `json:"task"`
	Language       string           `json:"language"`
	License        string           `json:"license"`
	Creator        string           `json:"creator"`
	CreatorAddress string           `json:"creatorAddress" binding:"required"`
	ManifestHash   string           `json:"manifestHash" binding:"required"`
	WalrusCID      string           `json:"walrusCID" binding:"required"`
	Signature      string           `json:"signature"`
	Price          int64            `json:"price"`
	IsPrivate      bool             `json:"isPrivate"`
	Tags           []string         `json:"tags"`
	Versions       []AdapterVersion `json:"versions"`
}

type ListAdapterReq struct {
	Query     string      `json:"-"`
	BaseModel string      `json:"-"`
	Task      string      `json:"-"`
	Sort      AdapterSort `json:"-"`
	Per       int         `json:"-"`
	Page      int         `json:"-"`
}

type UpdateListingReq struct {
	Price     *int64 `json:"price"`
	IsPrivate *bool  `json:"isPrivate"`
	// CurrentAddress is the caller's wallet address, filled from auth context.
	CurrentAddress string `json:"-"`
}

type AppendVersionReq struct {
	Version      string `json:"version" binding:"required"`
	WalrusCID    string `json:"walrusCID" binding:"required"`
	ManifestHash string `json:"manifestHash" binding:"required"`
	Changelog    string `json:"changelog"`
}

type DownloadAdapterResp struct {
	WalrusCID   string `json:"walrusCID"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Downloads   int64  `json:"downloads"`
}
