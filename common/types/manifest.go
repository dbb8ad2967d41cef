package types

// ManifestAuthor identifies one author of an adapter bundle.
type ManifestAuthor struct {
	Name       string `json:"name"`
	SuiAddress string `json:"sui_address"`
}

type ManifestFiles struct {
	Adapter string `json:"adapter"`
	Config  string `json:"config"`
}

type ManifestChecksums struct {
	Adapter string `json:"adapter"`
	Config  string `json:"config"`
}

// Manifest is the descriptive document bundled with an adapter. It is never
// persisted; its hash is the message the uploader's wallet signs.
type Manifest struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	BaseModels  []string          `json:"base_models"`
	Task        string            `json:"task,omitempty"`
	Language    string            `json:"language,omitempty"`
	License     string            `json:"license"`
	Authors     []ManifestAuthor  `json:"authors"`
	Files       ManifestFiles     `json:"files,omitempty"`
	Checksums   ManifestChecksums `json:"checksums,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}

// MintReq is consumed once by the mint orchestration and never persisted.
type MintReq struct {
	Name               string    `json:"name" binding:"required"`
	ManifestHash       string    `json:"manifestHash" binding:"required"`
	WalrusCID          string    `json:"walrusCID" binding:"required"`
	Signature          string    `json:"signature" binding:"required"`
	MessageBytesBase64 string    `json:"messageBytesBase64" binding:"required"`
	UploaderAddress    string    `json:"uploaderAddress" binding:"required"`
	Manifest           *Manifest `json:"manifest" binding:"required"`
}

type MintResp struct {
	Message string `json:"message"`
	Digest  string `json:"digest"`
}

type VerifyManifestReq struct {
	ManifestJSON    string `json:"manifestJson" binding:"required"`
	Signature       string `json:"signature" binding:"required"`
	ExpectedAddress string `json:"expectedAddress" binding:"required"`
}

type RegisterUploadReq struct {
	CID             string    `json:"cid" binding:"required"`
	Manifest        *Manifest `json:"manifest" binding:"required"`
	ManifestHash    string    `json:"manifest_hash" binding:"required"`
	SignedManifest  string    `json:"signed_manifest" binding:"required"`
	UploaderAddress string    `json:"uploader_address" binding:"required"`
	License         string    `json:"license"`
}

type RegisterUploadResp struct {
	OK                  bool   `json:"ok"`
	AdapterID           string `json:"adapterId"`
	PreparedTransaction string `json:"preparedTransaction,omitempty"`
}

type InitUploadReq struct {
	Filename string `json:"filename" binding:"required"`
	Size     int64  `json:"size" binding:"required"`
}
