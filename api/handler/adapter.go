package handler

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"github.com/mindshard/mindshard-server/api/httpbase"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/types"
	"github.com/mindshard/mindshard-server/component"
)

type AdapterHandler struct {
	adapter *component.AdapterComponent
}

func NewAdapterHandler(cfg *config.Config) (*AdapterHandler, error) {
	c, err := component.NewAdapterComponent(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter component: %w", err)
	}
	return &AdapterHandler{adapter: c}, nil
}

// Create godoc
// @Security     ApiKey
// @Summary      Register a new adapter
// @Description  register a new adapter record
// @Tags         Adapter
// @Accept       json
// @Produce      json
// @Param        body body types.CreateAdapterReq true "body"
// @Success      201  {object}  httpbase.R{data=types.Adapter} "Created"
// @Failure      400  {object}  httpbase.R "Bad request"
// @Failure      409  {object}  httpbase.R "Duplicate manifest hash"
// @Failure      500  {object}  httpbase.R "Internal server error"
// @Router       /adapters [post]
func (h *AdapterHandler) Create(ctx *gin.Context) {
	var req types.CreateAdapterReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	adapter, err := h.adapter.Create(ctx.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to create adapter", slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.Created(ctx, adapter)
}

// Index godoc
// @Summary      List adapters
// @Description  list adapters with optional filters and sorting
// @Tags         Adapter
// @Produce      json
// @Param        search query string false "substring match on name, description and tags"
// @Param        base_model query string false "exact base model filter"
// @Param        task query string false "exact task filter"
// @Param        sort query string false "sort order" Enums(popular,newest,price-low,price-high) default(popular)
// @Param        per query int false "page size" default(50)
// @Param        page query int false "page index" default(1)
// @Success      200  {object}  httpbase.R{data=[]types.Adapter} "OK"
// @Failure      500  {object}  httpbase.R "Internal server error"
// @Router       /adapters [get]
func (h *AdapterHandler) Index(ctx *gin.Context) {
	query := ctx.Query("search")
	if query == "" {
		query = ctx.Query("q")
	}
	req := types.ListAdapterReq{
		Query:     query,
		BaseModel: ctx.Query("base_model"),
		Task:      ctx.Query("task"),
		Sort:      types.AdapterSort(ctx.DefaultQuery("sort", string(types.AdapterSortPopular))),
		Per:       cast.ToInt(ctx.DefaultQuery("per", "50")),
		Page:      cast.ToInt(ctx.DefaultQuery("page", "1")),
	}
	adapters, err := h.adapter.List(ctx.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to list adapters", slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, adapters)
}

// Show godoc
// @Summary      Get one adapter
// @Description  get one adapter by id
// @Tags         Adapter
// @Produce      json
// @Param        id path string true "adapter id"
// @Success      200  {object}  httpbase.R{data=types.Adapter} "OK"
// @Failure      404  {object}  httpbase.R "Not found"
// @Router       /adapters/{id} [get]
func (h *AdapterHandler) Show(ctx *gin.Context) {
	adapter, err := h.adapter.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, adapter)
}

// Download godoc
// @Summary      Resolve a download
// @Description  bump the download counter and return the Walrus CID plus an optional mirror URL
// @Tags         Adapter
// @Produce      json
// @Param        id path string true "adapter id"
// @Success      200  {object}  httpbase.R{data=types.DownloadAdapterResp} "OK"
// @Failure      404  {object}  httpbase.R "Not found"
// @Router       /adapters/{id}/download [post]
func (h *AdapterHandler) Download(ctx *gin.Context) {
	resp, err := h.adapter.Download(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to resolve adapter download",
			slog.String("adapter_id", ctx.Param("id")), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, resp)
}

// UpdateListing godoc
// @Security     ApiKey
// @Summary      Update a listing
// @Description  change the price or visibility of an adapter, creator only
// @Tags         Adapter
// @Accept       json
// @Produce      json
// @Param        id path string true "adapter id"
// @Param        body body types.UpdateListingReq true "body"
// @Success      200  {object}  httpbase.R{data=types.Adapter} "OK"
// @Failure      403  {object}  httpbase.R "Not the creator"
// @Failure      404  {object}  httpbase.R "Not found"
// @Router       /adapters/{id}/listing [put]
func (h *AdapterHandler) UpdateListing(ctx *gin.Context) {
	var req types.UpdateListingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	req.CurrentAddress = httpbase.GetSuiAddress(ctx)
	adapter, err := h.adapter.UpdateListing(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to update adapter listing",
			slog.String("adapter_id", ctx.Param("id")), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, adapter)
}

// CreateVersion godoc
// @Security     ApiKey
// @Summary      Append a version
// @Description  append a new version entry to an adapter
// @Tags         Adapter
// @Accept       json
// @Produce      json
// @Param        id path string true "adapter id"
// @Param        body body types.AppendVersionReq true "body"
// @Success      200  {object}  httpbase.R{data=types.Adapter} "OK"
// @Failure      404  {object}  httpbase.R "Not found"
// @Failure      409  {object}  httpbase.R "Version conflict"
// @Router       /adapters/{id}/versions [post]
func (h *AdapterHandler) CreateVersion(ctx *gin.Context) {
	var req types.AppendVersionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	adapter, err := h.adapter.AppendVersion(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "failed to append adapter version",
			slog.String("adapter_id", ctx.Param("id")), slog.Any("error", err))
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, adapter)
}

// Versions godoc
// @Summary      List versions
// @Description  list the version history of an adapter
// @Tags         Adapter
// @Produce      json
// @Param        id path string true "adapter id"
// @Success      200  {object}  httpbase.R{data=[]types.AdapterVersion} "OK"
// @Failure      404  {object}  httpbase.R "Not found"
// @Router       /adapters/{id}/versions [get]
func (h *AdapterHandler) Versions(ctx *gin.Context) {
	versions, err := h.adapter.Versions(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		httpbase.HandleError(ctx, err)
		return
	}
	httpbase.OK(ctx, versions)
}
