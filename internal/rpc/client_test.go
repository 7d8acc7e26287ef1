package rpc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/riverbird/api/v1/units", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"role": "meta", "state": "ready"}})
	})
	router.POST("/riverbird/api/v1/shutdown", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "shutting-down"})
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGetJSON(t *testing.T) {
	srv := testServer(t)
	client := NewClient(&HTTPConfig{BaseURL: srv.URL})

	var units []map[string]string
	require.NoError(t, client.GetJSON("/riverbird/api/v1/units", &units))
	require.Len(t, units, 1)
	assert.Equal(t, "meta", units[0]["role"])
}

func TestClientGetJSONNotFound(t *testing.T) {
	srv := testServer(t)
	client := NewClient(&HTTPConfig{BaseURL: srv.URL})

	var out map[string]string
	err := client.GetJSON("/riverbird/api/v1/nope", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClientPost(t *testing.T) {
	srv := testServer(t)
	client := NewClient(&HTTPConfig{BaseURL: srv.URL})

	resp, err := client.Post("/riverbird/api/v1/shutdown", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "shutting-down")
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient(&HTTPConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := client.Get("/riverbird/api/v1/units")
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	client := NewClient(nil)
	assert.Equal(t, "http://127.0.0.1:5699", client.config.BaseURL)
}
