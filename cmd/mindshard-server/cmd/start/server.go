package start

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mindshard/mindshard-server/api/httpbase"
	"github.com/mindshard/mindshard-server/api/router"
	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/docs"
)

var enableSwagger bool

func init() {
	serverCmd.Flags().BoolVar(&enableSwagger, "swagger", false, "Start swagger help docs")
}

var serverCmd = &cobra.Command{
	Use:     "server",
	Short:   "Start the API server",
	Example: serverExample(),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		enableSwagger = enableSwagger || cfg.EnableSwagger

		if enableSwagger {
			//	@securityDefinitions.apikey ApiKey
			//	@in                         header
			//	@name                       Authorization
			//	@description                Bearer token
			docs.SwaggerInfo.Title = "MindShard Server API"
			docs.SwaggerInfo.Description = "MindShard adapter marketplace API."
			docs.SwaggerInfo.Version = "1.0"
			docs.SwaggerInfo.Host = cfg.DocsHost
			docs.SwaggerInfo.BasePath = cfg.APIServer.RoutePrefix
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}

		dbConfig := database.DBConfig{
			Dialect: database.DatabaseDialect(cfg.Database.Driver),
			DSN:     cfg.Database.DSN,
		}
		err = database.InitDB(dbConfig)
		if err != nil {
			return fmt.Errorf("initializing DB connection: %w", err)
		}
		r, err := router.NewRouter(cfg, enableSwagger)
		if err != nil {
			return err
		}
		server := httpbase.NewGracefulServer(
			httpbase.GraceServerOpt{
				Port: cfg.APIServer.Port,
			},
			r,
		)
		server.Run()

		return nil
	},
}

func serverExample() string {
	return `
# for development
mindshard-server start server
`
}
