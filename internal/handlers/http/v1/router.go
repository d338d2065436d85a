package v1

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/config"
	gql "github.com/dev-react009/instaclone/internal/handlers/http/v1/graphql"
	"github.com/dev-react009/instaclone/internal/service"
)

// New builds the HTTP surface. uploadDir is the local image directory served
// back to clients; it is empty when images live in a hosted store.
func New(svc *service.Service, conf config.HTTPServer, uploadDir string, log *logrus.Logger) (*gin.Engine, error) {
	var (
		router = gin.New()
	)

	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	origins := conf.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300 * time.Second,
	}))

	gqlHandler, err := gql.New(svc, log)
	if err != nil {
		return nil, err
	}

	posts := &postsHandler{svc: svc, log: log}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to instaclone"})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/get/post", posts.list)
		apiGroup.POST("/add/post", posts.create)
		apiGroup.POST("/graphql", gin.WrapH(gqlHandler))
	}

	router.NoRoute(staticFallback(filepath.Join(conf.StaticDir, "index.html"), uploadDir, conf.StaticDir)...)

	return router, nil
}
