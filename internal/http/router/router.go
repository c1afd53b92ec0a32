package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fablelens.app/analyzer/core/db"
	"fablelens.app/analyzer/internal/http/handler"
	"fablelens.app/analyzer/internal/service"
	"fablelens.app/analyzer/web"
)

type Deps struct {
	Services *service.Services
	Redis    *redis.Client
	DB       *db.DB
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", func(c *gin.Context) {
		if err := deps.DB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	bookHandler := handler.NewBookHandler(deps.Services.Library())
	analysisHandler := handler.NewAnalysisHandler(deps.Services.Analyses())
	eventsHandler := handler.NewEventsHandler(deps.Redis, deps.Services.Analyses())

	v1 := router.Group("/api/v1")
	{
		books := v1.Group("/books")
		books.GET("", bookHandler.List)
		books.POST("", bookHandler.Upload)
		books.GET("/:id", bookHandler.GetByID)
		books.GET("/:id/analyses", analysisHandler.ListByBook)

		analyses := v1.Group("/analyses")
		analyses.POST("", analysisHandler.Create)
		analyses.GET("/:id", analysisHandler.GetByID)
		analyses.GET("/:id/events", eventsHandler.Stream)
	}

	WebRouter(router)
}

// WebRouter serves the embedded single-page UI.
func WebRouter(router *gin.Engine) {
	fs := http.FS(web.FS)

	// Serving "index.html" by name makes net/http redirect to "./";
	// asking for the directory root serves it without the redirect.
	router.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", fs)
	})
	router.GET("/app.js", func(c *gin.Context) {
		c.FileFromFS("app.js", fs)
	})
	router.GET("/style.css", func(c *gin.Context) {
		c.FileFromFS("style.css", fs)
	})
}
