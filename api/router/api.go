package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/mindshard/mindshard-server/api/handler"
	"github.com/mindshard/mindshard-server/api/middleware"
	"github.com/mindshard/mindshard-server/common/config"
)

func NewRouter(config *config.Config, enableSwagger bool) (*gin.Engine, error) {
	r := gin.New()
	if config.APIServer.CORSMode == "permissive" {
		r.Use(cors.New(cors.Config{
			AllowCredentials: true,
			AllowHeaders:     []string{"*"},
			AllowMethods:     []string{"*"},
			AllowAllOrigins:  true,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowCredentials: true,
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowOrigins:     []string{config.APIServer.PublicDomain},
		}))
	}
	r.Use(gin.Recovery())
	r.Use(middleware.Log())

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(middleware.Authenticator(config))

	if enableSwagger {
		r.GET(config.APIServer.RoutePrefix+"/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adapterHandler, err := handler.NewAdapterHandler(config)
	if err != nil {
		return nil, fmt.Errorf("error creating adapter handler:%w", err)
	}
	walrusHandler, err := handler.NewWalrusHandler(config)
	if err != nil {
		return nil, fmt.Errorf("error creating walrus handler:%w", err)
	}
	suiHandler, err := handler.NewSuiHandler(config)
	if err != nil {
		return nil, fmt.Errorf("error creating sui handler:%w", err)
	}
	authHandler, err := handler.NewAuthHandler(config)
	if err != nil {
		return nil, fmt.Errorf("error creating auth handler:%w", err)
	}
	marketplaceHandler, err := handler.NewMarketplaceHandler(config)
	if err != nil {
		return nil, fmt.Errorf("error creating marketplace handler:%w", err)
	}

	apiGroup := r.Group(config.APIServer.RoutePrefix)

	adapters := apiGroup.Group("/adapters")
	{
		adapters.POST("", middleware.MustLogin(), adapterHandler.Create)
		adapters.GET("", adapterHandler.Index)
		adapters.GET("/:id", adapterHandler.Show)
		adapters.POST("/:id/download", adapterHandler.Download)
		adapters.PUT("/:id/listing", middleware.MustLogin(), adapterHandler.UpdateListing)
		adapters.POST("/:id/versions", middleware.MustLogin(), adapterHandler.CreateVersion)
		adapters.GET("/:id/versions", adapterHandler.Versions)
	}

	walrus := apiGroup.Group("/walrus")
	{
		walrus.POST("/upload-init", middleware.MustLogin(), walrusHandler.InitUpload)
		walrus.POST("/upload-blob", middleware.MustLogin(), walrusHandler.UploadBlob)
		walrus.POST("/register", middleware.MustLogin(), walrusHandler.Register)
		walrus.GET("/blob/:cid", walrusHandler.BlobInfo)
	}

	sui := apiGroup.Group("/sui")
	{
		sui.POST("/mint", middleware.MustLogin(), suiHandler.Mint)
		sui.POST("/verify", suiHandler.Verify)
		sui.GET("/health", suiHandler.Health)
	}

	auth := apiGroup.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.MustLogin(), authHandler.Me)
		auth.PUT("/wallet", middleware.MustLogin(), authHandler.UpdateWallet)
	}

	marketplace := apiGroup.Group("/marketplace")
	{
		marketplace.POST("/purchase", middleware.MustLogin(), marketplaceHandler.Purchase)
		marketplace.GET("/purchases", marketplaceHandler.Purchases)
	}

	return r, nil
}
