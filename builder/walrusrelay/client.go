package walrusrelay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mindshard/mindshard-server/common/errorx"
)

const (
	relayPath     = "/v1/blob-upload-relay"
	blobStatusFmt = "/v1/blobs/%s/status"
	nonceLength   = 21
)

// Client talks to a Walrus upload relay. Mobile and browser clients cannot
// push blobs to storage nodes directly, so bundles are streamed through the
// relay after the registration transaction exists on chain.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		hc:      http.DefaultClient,
	}
}

// UploadSession is handed to the client before it streams a bundle. The
// nonce ties the relay upload to the registration transaction.
type UploadSession struct {
	Nonce    string `json:"nonce"`
	RelayURL string `json:"relay_url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// InitSession mints a fresh relay nonce for an upcoming upload.
func (c *Client) InitSession(filename string, size int64) (*UploadSession, error) {
	nonce, err := gonanoid.New(nonceLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate relay nonce: %w", err)
	}
	return &UploadSession{
		Nonce:    nonce,
		RelayURL: c.baseURL + relayPath,
		Filename: filename,
		Size:     size,
	}, nil
}

// UploadParams mirror the relay's query string. EncodingType defaults to
// RS2 when empty.
type UploadParams struct {
	BlobID              string
	TxID                string
	Nonce               string
	DeletableBlobObject string
	EncodingType        string
}

// UploadBlob streams a bundle through the relay and returns the relay's
// response verbatim. The payload may be an io.Reader; it is first
// materialized to a temp file so the request body has a known length and can
// be replayed. Temp files created here are removed on every exit path.
func (c *Client) UploadBlob(ctx context.Context, params UploadParams, payload io.Reader) (json.RawMessage, error) {
	tmp, err := os.CreateTemp("", "walrus-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()
	size, err := io.Copy(tmp, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to spool upload payload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload payload: %w", err)
	}
	return c.uploadFile(ctx, params, tmp, size)
}

// UploadBlobFile streams an existing file through the relay. The caller
// keeps ownership of the file; it is not removed.
func (c *Client) UploadBlobFile(ctx context.Context, params UploadParams, path string) (json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload payload: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload payload: %w", err)
	}
	return c.uploadFile(ctx, params, f, info.Size())
}

func (c *Client) uploadFile(ctx context.Context, params UploadParams, body io.Reader, size int64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("blob_id", params.BlobID)
	q.Set("tx_id", params.TxID)
	q.Set("nonce", params.Nonce)
	if params.DeletableBlobObject != "" {
		q.Set("deletable_blob_object", params.DeletableBlobObject)
	}
	encoding := params.EncodingType
	if encoding == "" {
		encoding = "RS2"
	}
	q.Set("encoding_type", encoding)

	uploadURL := c.baseURL + relayPath + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")
	c.setAuth(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errorx.RelayUnreachable(
			fmt.Errorf("failed to reach upload relay: %w", err),
			errorx.Ctx().Set("blob_id", params.BlobID),
		)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorx.RelayRejected(
			fmt.Errorf("relay rejected upload, status:%d, body:%s", resp.StatusCode, raw),
			errorx.Ctx().Set("blob_id", params.BlobID).Set("status", resp.StatusCode),
		)
	}
	return json.RawMessage(raw), nil
}

// BlobInfo fetches blob metadata from the relay, retrying transient
// failures. A 404 is terminal: the blob either exists or it does not.
func (c *Client) BlobInfo(ctx context.Context, blobID string) (json.RawMessage, error) {
	infoURL := c.baseURL + fmt.Sprintf(blobStatusFmt, url.PathEscape(blobID))
	var raw json.RawMessage
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			c.setAuth(req)
			resp, err := c.hc.Do(req)
			if err != nil {
				return errorx.RelayUnreachable(
					fmt.Errorf("failed to reach upload relay: %w", err), nil)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			switch {
			case resp.StatusCode == http.StatusOK:
				raw = json.RawMessage(body)
				return nil
			case resp.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(errorx.BlobNotFound(
					fmt.Errorf("blob %s not found", blobID),
					errorx.Ctx().Set("blob_id", blobID),
				))
			default:
				return errorx.RelayRejected(
					fmt.Errorf("relay status %d: %s", resp.StatusCode, body),
					errorx.Ctx().Set("blob_id", blobID).Set("status", resp.StatusCode),
				)
			}
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
