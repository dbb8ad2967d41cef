package handler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mindshard/mindshard-server/api/httpbase"
	"github.com/mindshard/mindshard-server/builder/walrusrelay"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/mindshard/mindshard-server/component"
)

type WalrusHandler struct {
	upload *component.UploadComponent
}

func NewWalrusHandler(cfg *config.Config) (*WalrusHandler, error) {
	c, err := component.NewUploadComponent(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload component: %w", err)
	}
	return &WalrusHandler{upload: c}, nil
}

// InitUpload godoc
// @Security     ApiKey
// @Summary      Initialize an upload session
// @Description  mint a relay nonce for an upcoming bundle upload
// @Tags         Walrus
// @Accept       json
// @Produce      json
// @Param        body body types.InitUploadReq true "body"
// @Success      200  {object}  httpbase.R{data=walrusrelay.UploadSession} "OK"
// @Failure      400  {object}  httpbase.R "Bad request"
// @Router       /walrus/upload-init [post]
func (h *WalrusHandler) InitUpload(ctx *gin.Context) {
	var req types.InitUploadReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	session, err := h.upload.InitUpload(ctx.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to init upload session", slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, session)
}

// UploadBlob godoc
// @Security     ApiKey
// @Summary      Upload a bundle
// @Description  validate a bundle archive and stream it to Walrus through the relay
// @Tags         Walrus
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "adapter bundle zip"
// @Param        blob_id query string true "blob id"
// @Param        tx_id query string true "registration tx id"
// @Param        nonce query string true "relay nonce from upload-init"
// @Param        deletable_blob_object query string false "deletable blob object id"
// @Param        encoding_type query string false "walrus encoding type"
// @Success      200  {object}  httpbase.R "OK"
// @Failure      400  {object}  httpbase.R "Invalid bundle"
// @Failure      502  {object}  httpbase.R "Relay rejected the upload"
// @Router       /walrus/upload-blob [post]
func (h *WalrusHandler) UploadBlob(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		httpbase.BadRequest(ctx, "missing file in multipart form")
		return
	}
	f, err := file.Open()
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}

	params := walrusrelay.UploadParams{
		BlobID:              ctx.Query("blob_id"),
		TxID:                ctx.Query("tx_id"),
		Nonce:               ctx.Query("nonce"),
		DeletableBlobObject: ctx.Query("deletable_blob_object"),
		EncodingType:        ctx.Query("encoding_type"),
	}
	resp, err := h.upload.UploadBlob(ctx.Request.Context(), params, data)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to upload blob",
			slog.String("blob_id", params.BlobID), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, resp)
}

// Register godoc
// @Security     ApiKey
// @Summary      Register an uploaded bundle
// @Description  verify the signed manifest and create the adapter record
// @Tags         Walrus
// @Accept       json
// @Produce      json
// @Param        body body types.RegisterUploadReq true "body"
// @Success      200  {object}  httpbase.R{data=types.RegisterUploadResp} "OK"
// @Failure      401  {object}  httpbase.R "Invalid manifest signature"
// @Failure      409  {object}  httpbase.R "Duplicate manifest hash"
// @Router       /walrus/register [post]
func (h *WalrusHandler) Register(ctx *gin.Context) {
	var req types.RegisterUploadReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	resp, err := h.upload.Register(ctx.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to register upload",
			slog.String("cid", req.CID), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, resp)
}

// BlobInfo godoc
// @Summary      Get blob status
// @Description  proxy the relay's blob status for a Walrus CID
// @Tags         Walrus
// @Produce      json
// @Param        cid path string true "walrus cid"
// @Success      200  {object}  httpbase.R "OK"
// @Failure      404  {object}  httpbase.R "Blob not found"
// @Router       /walrus/blob/{cid} [get]
func (h *WalrusHandler) BlobInfo(ctx *gin.Context) {
	resp, err := h.upload.BlobInfo(ctx.Request.Context(), ctx.Param("cid"))
	if err != nil {
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, resp)
}
