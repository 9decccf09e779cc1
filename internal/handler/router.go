package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/CageChen/webshell/internal/metrics"
	"github.com/CageChen/webshell/internal/session"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Options wires the router.
type Options struct {
	Tree     vfs.Tree
	Sessions *session.Manager
	Log      logrus.FieldLogger
	// Web holds the static terminal page; nil serves only the API.
	Web     fs.FS
	Metrics bool
}

// NewRouter builds the gin engine. The returned WSHandler should be
// subscribed to tree reloads.
func NewRouter(opts Options) (*gin.Engine, *WSHandler) {
	execHandler := NewExecHandler(opts.Sessions, opts.Log)
	treeHandler := NewTreeHandler(opts.Tree)
	wsHandler := NewWSHandler(opts.Sessions, opts.Log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(opts.Log))
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.POST("/exec", execHandler.Exec)
		api.GET("/cwd", execHandler.Cwd)
		api.GET("/tree", treeHandler.GetTree)
		api.GET("/ws", wsHandler.HandleWS)
	}

	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	if opts.Web != nil {
		r.NoRoute(gin.WrapH(http.FileServer(http.FS(opts.Web))))
	}

	return r, wsHandler
}

func logMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
