package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/requestid"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/stahnma/puppet-dashboard/internal/db"
	"github.com/stahnma/puppet-dashboard/internal/logging"
	"github.com/stahnma/puppet-dashboard/internal/middleware"
	"github.com/stahnma/puppet-dashboard/internal/version"
)

const AppName = "dashboard"

type server struct {
	version version.Result
	db      *gorm.DB
	logger  logging.Logger
}

// Router builds the HTTP handler. v is the version resolved at startup.
// gdb may be nil, in which case the boot history endpoint answers 503.
func Router(v version.Result, gdb *gorm.DB, logger logging.Logger) http.Handler {
	s := &server{version: v, db: gdb, logger: logger}

	r := gin.New()
	r.Use(requestid.New())
	r.Use(ginzap.GinzapWithConfig(logging.Zap(logger), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health"},
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("requestId", requestid.Get(c))}
		},
	}))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Version(v.String()))

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	api.GET("/version", s.getVersion)
	v1 := api.Group("/v1")
	v1.GET("/boots", s.listBoots)
	return r
}

type versionResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  string `json:"source"`
}

func (s *server) getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, versionResponse{Name: AppName, Version: s.version.String(), Source: string(s.version.Source)})
}

func (s *server) listBoots(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "boot history unavailable"})
		return
	}
	limit := db.DefaultBootLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}
	rows, err := db.RecentBoots(c.Request.Context(), s.db, limit)
	if err != nil {
		s.logger.Error("list boots failed", "error", err, "requestId", requestid.Get(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
