package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	indexhandler "stock_sync/internal/feature/indexcatalog/transport/handler"
	synchandler "stock_sync/internal/feature/marketsync/transport/handler"
	healthhandler "stock_sync/internal/platform/http/handler"
)

// NewRouter wires every HTTP route. corsOrigins of ["*"] or empty allows any origin.
func NewRouter(health *healthhandler.HealthHandler, indices *indexhandler.IndexHandler,
	sync *synchandler.SyncHandler, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	r.GET("/indices", indices.List)
	r.GET("/indices/:name", indices.Get)
	r.POST("/indices/:name/sync", sync.SyncIndex)

	r.GET("/symbols/:symbol/metadata", sync.GetSymbolMetadata)
	r.GET("/symbols/:symbol/series", sync.GetSymbolSeries)

	r.GET("/batches", sync.ListBatches)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
