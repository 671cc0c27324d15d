package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stahnma/puppet-dashboard/internal/config"
	"github.com/stahnma/puppet-dashboard/internal/db"
	"github.com/stahnma/puppet-dashboard/internal/logging"
	"github.com/stahnma/puppet-dashboard/internal/middleware"
	"github.com/stahnma/puppet-dashboard/internal/models"
	"github.com/stahnma/puppet-dashboard/internal/version"
)

func init() { gin.SetMode(gin.TestMode) }

func setupTestServer(t *testing.T, v version.Result) (*httptest.Server, *gorm.DB) {
	t.Helper()
	logger := logging.Wrap(zap.NewNop())
	cfg := &config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "test.db")}
	gdb, err := db.Open(cfg, logger)
	require.NoError(t, err)
	ts := httptest.NewServer(Router(v, gdb, logger))
	t.Cleanup(ts.Close)
	return ts, gdb
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndVersion(t *testing.T) {
	ts, _ := setupTestServer(t, version.Result{Text: "1.2.3", Source: version.SourceFile})

	resp := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.2.3", resp.Header.Get(middleware.VersionHeader))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = get(t, ts.URL+"/api/version")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body versionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, versionResponse{Name: AppName, Version: "1.2.3", Source: "file"}, body)
}

func TestVersionUnknown(t *testing.T) {
	ts, _ := setupTestServer(t, version.Result{Source: version.SourceNone, Err: errors.New("no tags")})

	resp := get(t, ts.URL+"/api/version")
	var body versionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, version.Unknown, body.Version)
	assert.Equal(t, "none", body.Source)
	assert.Equal(t, version.Unknown, resp.Header.Get(middleware.VersionHeader))
}

func TestListBoots(t *testing.T) {
	ts, gdb := setupTestServer(t, version.Result{Text: "v2.0", Source: version.SourceGit})
	ctx := context.Background()
	for _, v := range []string{"v1.0", "v2.0"} {
		_, err := db.RecordBoot(ctx, gdb, version.Result{Text: v, Source: version.SourceGit})
		require.NoError(t, err)
	}

	resp := get(t, ts.URL+"/api/v1/boots")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []models.Boot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "v2.0", rows[0].Version)

	resp = get(t, ts.URL+"/api/v1/boots?limit=1")
	rows = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	assert.Len(t, rows, 1)

	resp = get(t, ts.URL+"/api/v1/boots?limit=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListBootsWithoutStore(t *testing.T) {
	h := Router(version.Result{Text: "1.0", Source: version.SourceFile}, nil, logging.Wrap(zap.NewNop()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/boots", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecovererHandlesPanic(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recoverer(logging.Wrap(zap.NewNop())))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
