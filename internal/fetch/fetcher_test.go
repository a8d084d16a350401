package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
)

func setupTestFetcher(t *testing.T, router *gin.Engine, opts ...Option) (*Fetcher, *httptest.Server) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return New(logger, opts...), server
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestFetcher_GetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("successful request", func(t *testing.T) {
		router := newRouter()
		router.GET("/data", func(c *gin.Context) {
			assert.Equal(t, "application/json", c.GetHeader("Accept"))
			assert.Equal(t, "download-tracker", c.GetHeader("User-Agent"))
			c.String(http.StatusOK, `{"name": "macvim", "count": 3}`)
		})
		fetcher, server := setupTestFetcher(t, router, WithHeader("Accept", "application/json"))

		var out struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}
		require.NoError(t, fetcher.GetJSON(ctx, server.URL+"/data", &out))
		assert.Equal(t, "macvim", out.Name)
		assert.Equal(t, 3, out.Count)
	})

	t.Run("malformed response", func(t *testing.T) {
		router := newRouter()
		router.GET("/data", func(c *gin.Context) {
			c.String(http.StatusOK, `invalid json`)
		})
		fetcher, server := setupTestFetcher(t, router)

		var out map[string]interface{}
		err := fetcher.GetJSON(ctx, server.URL+"/data", &out)
		assert.True(t, apperrors.IsDecode(err))
	})

	t.Run("server error", func(t *testing.T) {
		router := newRouter()
		router.GET("/data", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})
		fetcher, server := setupTestFetcher(t, router)

		var out map[string]interface{}
		err := fetcher.GetJSON(ctx, server.URL+"/data", &out)
		require.Error(t, err)
		assert.True(t, apperrors.IsTransport(err))

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	})

	t.Run("unauthorized is not swallowed", func(t *testing.T) {
		router := newRouter()
		router.GET("/data", func(c *gin.Context) {
			c.String(http.StatusUnauthorized, `{"message": "Bad credentials"}`)
		})
		fetcher, server := setupTestFetcher(t, router)

		var out map[string]interface{}
		err := fetcher.GetJSON(ctx, server.URL+"/data", &out)
		require.Error(t, err)
		assert.True(t, apperrors.IsTransport(err))
		assert.Contains(t, err.Error(), "Bad credentials")
		assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	})

	t.Run("network error", func(t *testing.T) {
		fetcher, server := setupTestFetcher(t, newRouter())
		server.Close()

		_, err := fetcher.GetRaw(ctx, server.URL+"/data")
		assert.True(t, apperrors.IsTransport(err))
	})

	t.Run("timeout", func(t *testing.T) {
		router := newRouter()
		router.GET("/slow", func(c *gin.Context) {
			time.Sleep(200 * time.Millisecond)
			c.String(http.StatusOK, `{}`)
		})
		fetcher, server := setupTestFetcher(t, router, WithTimeout(20*time.Millisecond))

		_, err := fetcher.GetRaw(ctx, server.URL+"/slow")
		assert.True(t, apperrors.IsTransport(err))
	})
}
